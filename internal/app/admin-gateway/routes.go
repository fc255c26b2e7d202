// Package admingateway предоставляет маршруты панели администратора.
package admingateway

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/content-admin/internal/config"
	accessgrant "github.com/magabrotheeeer/content-admin/internal/http/handlers/access/grant"
	accessrevoke "github.com/magabrotheeeer/content-admin/internal/http/handlers/access/revoke"
	"github.com/magabrotheeeer/content-admin/internal/http/handlers/auth/login"
	categorycreate "github.com/magabrotheeeer/content-admin/internal/http/handlers/category/create"
	categorylist "github.com/magabrotheeeer/content-admin/internal/http/handlers/category/list"
	categoryremove "github.com/magabrotheeeer/content-admin/internal/http/handlers/category/remove"
	categoryupdate "github.com/magabrotheeeer/content-admin/internal/http/handlers/category/update"
	pagecreate "github.com/magabrotheeeer/content-admin/internal/http/handlers/page/create"
	pagelist "github.com/magabrotheeeer/content-admin/internal/http/handlers/page/list"
	pagelistall "github.com/magabrotheeeer/content-admin/internal/http/handlers/page/listall"
	pageremove "github.com/magabrotheeeer/content-admin/internal/http/handlers/page/remove"
	pageupdate "github.com/magabrotheeeer/content-admin/internal/http/handlers/page/update"
	productcreate "github.com/magabrotheeeer/content-admin/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/content-admin/internal/http/handlers/product/list"
	productpages "github.com/magabrotheeeer/content-admin/internal/http/handlers/product/pages"
	productread "github.com/magabrotheeeer/content-admin/internal/http/handlers/product/read"
	productremove "github.com/magabrotheeeer/content-admin/internal/http/handlers/product/remove"
	productupdate "github.com/magabrotheeeer/content-admin/internal/http/handlers/product/update"
	userbulkremove "github.com/magabrotheeeer/content-admin/internal/http/handlers/user/bulkremove"
	userconfirm "github.com/magabrotheeeer/content-admin/internal/http/handlers/user/confirm"
	userinteractions "github.com/magabrotheeeer/content-admin/internal/http/handlers/user/interactions"
	userlist "github.com/magabrotheeeer/content-admin/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/content-admin/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/content-admin/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/content-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/content-admin/internal/services/catalog"
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, maker jwt.Maker,
	directoryService *directory.Service, catalogService *catalog.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, cfg.Admin, maker).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users", userlist.New(logger, directoryService).ServeHTTP)
			r.Post("/users/bulk-remove", userbulkremove.New(logger, directoryService).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, directoryService).ServeHTTP)
			r.Delete("/users/{id}", userremove.New(logger, directoryService).ServeHTTP)
			r.Get("/users/{id}/interactions", userinteractions.New(logger, directoryService).ServeHTTP)
			r.Post("/users/{id}/confirm", userconfirm.New(logger, directoryService).ServeHTTP)
			r.Post("/users/{id}/access", accessgrant.New(logger, directoryService).ServeHTTP)
			r.Delete("/users/{id}/access/{productId}", accessrevoke.New(logger, directoryService).ServeHTTP)

			r.Get("/products", productlist.New(logger, catalogService).ServeHTTP)
			r.Post("/products", productcreate.New(logger, catalogService).ServeHTTP)
			r.Get("/products/{id}", productread.New(logger, catalogService).ServeHTTP)
			r.Patch("/products/{id}", productupdate.New(logger, catalogService).ServeHTTP)
			r.Delete("/products/{id}", productremove.New(logger, catalogService).ServeHTTP)
			r.Get("/products/{id}/pages", productpages.New(logger, catalogService).ServeHTTP)

			r.Get("/pages", pagelist.New(logger, catalogService).ServeHTTP)
			r.Get("/pages/all", pagelistall.New(logger, catalogService).ServeHTTP)
			r.Post("/pages", pagecreate.New(logger, catalogService).ServeHTTP)
			r.Patch("/pages/{id}", pageupdate.New(logger, catalogService).ServeHTTP)
			r.Delete("/pages/{id}", pageremove.New(logger, catalogService).ServeHTTP)

			r.Get("/categories", categorylist.New(logger, catalogService).ServeHTTP)
			r.Post("/categories", categorycreate.New(logger, catalogService).ServeHTTP)
			r.Patch("/categories/{id}", categoryupdate.New(logger, catalogService).ServeHTTP)
			r.Delete("/categories/{id}", categoryremove.New(logger, catalogService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
