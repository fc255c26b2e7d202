// Package pages реализует HTTP-обработчик эффективного набора страниц
// продукта: страницы выбранных категорий плюс явно выбранные страницы.
package pages

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Handler управляет HTTP-запросами набора страниц продукта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс разрешения страниц продукта.
type Service interface {
	Product(ctx context.Context, id string) (*models.Product, error)
	ResolvePages(ctx context.Context, product *models.Product) ([]models.Page, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Эффективный набор страниц продукта
// @Description Страницы категорий продукта идут первыми, затем явно выбранные; дубликаты схлопнуты.
// @Tags Products
// @Produce  json
// @Param id path string true "Идентификатор продукта"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустой идентификатор"
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /products/{id}/pages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.pages"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("empty product id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	product, err := h.service.Product(r.Context(), id)
	if err != nil {
		log.Error("failed to get product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get product"))
		return
	}

	resolved, err := h.service.ResolvePages(r.Context(), product)
	if err != nil {
		log.Error("failed to resolve pages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resolve pages"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count": len(resolved),
		"pages": resolved,
	}))
}
