// Package remove реализует HTTP-обработчик удаления продукта.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
)

// Handler управляет HTTP-запросами удаления продукта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления продукта.
type Service interface {
	DeleteProduct(ctx context.Context, id string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить продукт
// @Tags Products
// @Produce  json
// @Param id path string true "Идентификатор продукта"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустой идентификатор"
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.remove"
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

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		log.Error("failed to delete product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete product"))
		return
	}

	log.Info("product deleted", slog.String("product_id", id))
	render.JSON(w, r, response.OK())
}
