// Package listall реализует HTTP-обработчик полного списка страниц
// без пагинации. Используется редактором продукта для подбора страниц.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Handler управляет HTTP-запросами полного списка страниц.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения всех страниц.
type Service interface {
	AllPages(ctx context.Context) ([]models.Page, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все страницы без пагинации
// @Tags Pages
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /pages/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.page.listall"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	pages, err := h.service.AllPages(r.Context())
	if err != nil {
		log.Error("failed to list all pages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list pages"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count": len(pages),
		"pages": pages,
	}))
}
