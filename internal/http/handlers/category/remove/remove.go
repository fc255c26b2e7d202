// Package remove реализует HTTP-обработчик удаления категории.
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

// Handler управляет HTTP-запросами удаления категории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления категории.
type Service interface {
	DeleteCategory(ctx context.Context, id string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить категорию
// @Tags Categories
// @Produce  json
// @Param id path string true "Идентификатор категории"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустой идентификатор"
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("empty category id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		log.Error("failed to delete category", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete category"))
		return
	}

	log.Info("category deleted", slog.String("category_id", id))
	render.JSON(w, r, response.OK())
}
