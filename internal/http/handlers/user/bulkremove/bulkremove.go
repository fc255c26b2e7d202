// Package bulkremove реализует HTTP-обработчик массового удаления
// пользователей. Удаления уходят независимым конкурентным веером:
// частичный отказ не откатывает успевшие, неудавшиеся возвращаются
// оператору для ручного повтора.
package bulkremove

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Handler управляет HTTP-запросами массового удаления пользователей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс массового удаления.
type Service interface {
	DeleteUsers(ctx context.Context, actor string, ids []string) []string
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Удалить выбранных пользователей
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.DummyBulkRemove true "Идентификаторы пользователей"
// @Success 200 {object} response.Response "deleted_count и failed_ids"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /users/bulk-remove [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.bulkremove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBulkRemove
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	actor, ok := middlewarectx.Username(r.Context())
	if !ok {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	failed := h.service.DeleteUsers(r.Context(), actor, req.IDs)

	log.Info("bulk remove finished",
		slog.Int("requested", len(req.IDs)), slog.Int("failed", len(failed)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_count": len(req.IDs) - len(failed),
		"failed_ids":    failed,
	}))
}
