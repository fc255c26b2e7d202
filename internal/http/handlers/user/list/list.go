// Package list реализует HTTP-обработчик списка пользователей.
//
// Список загружается с бекенда с пагинацией, записи доступа приходят
// уже с подставленными именами продуктов. Успешная загрузка запускает
// немедленный проход сверки истечения.
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
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
)

// Handler управляет HTTP-запросами списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики загрузки списка.
type Service interface {
	Load(ctx context.Context, page, limit int) (*directory.UserPage, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает страницу пользователей с их доступами к продуктам.
// @Tags Users
// @Produce  json
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse "Бекенд недоступен и кэша нет"
// @Security BearerAuth
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 30
	}

	result, err := h.service.Load(r.Context(), page, limit)
	if err != nil {
		log.Error("failed to load users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load users"))
		return
	}

	log.Info("users loaded", slog.Int("count", len(result.Users)), slog.Bool("stale", result.Stale))
	render.JSON(w, r, response.StatusOKWithData(result))
}
