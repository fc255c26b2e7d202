// Package confirm реализует HTTP-обработчик подтверждения учётной записи.
package confirm

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
)

// Handler управляет HTTP-запросами подтверждения пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подтверждения пользователя.
type Service interface {
	ConfirmUser(ctx context.Context, actor, userID string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить учётную запись пользователя
// @Tags Users
// @Produce  json
// @Param id path string true "Идентификатор пользователя"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Оператор не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /users/{id}/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("empty user id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	actor, ok := middlewarectx.Username(r.Context())
	if !ok {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.ConfirmUser(r.Context(), actor, id); err != nil {
		log.Error("failed to confirm user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm user"))
		return
	}

	log.Info("user confirmed", slog.String("user_id", id))
	render.JSON(w, r, response.OK())
}
