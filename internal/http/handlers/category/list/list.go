// Package list реализует HTTP-обработчик списка категорий.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Handler управляет HTTP-запросами списка категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения списка категорий.
type Service interface {
	Categories(ctx context.Context, page, limit int) ([]models.Category, int, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список категорий
// @Tags Categories
// @Produce  json
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(30)
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 30
	}

	categories, total, err := h.service.Categories(r.Context(), page, limit)
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list categories"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"categories": categories,
		"totalCount": total,
		"page":       page,
		"limit":      limit,
	}))
}
