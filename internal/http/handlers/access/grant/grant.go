// Package grant реализует HTTP-обработчик выдачи доступа к продукту.
// Повторная выдача уже активного продукта отклоняется с кодом 409.
package grant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
)

// Handler управляет HTTP-запросами выдачи доступа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс выдачи доступа.
type Service interface {
	GrantAccess(ctx context.Context, actor, userID, productID string) (*models.ProductAccess, error)
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
// @Summary Выдать пользователю доступ к продукту
// @Tags Access
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор пользователя"
// @Param request body models.DummyGrant true "Идентификатор продукта"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Доступ уже выдан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /users/{id}/access [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.grant"
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

	var req models.DummyGrant
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

	access, err := h.service.GrantAccess(r.Context(), actor, id, req.ProductID)
	switch {
	case errors.Is(err, directory.ErrAccessExists):
		log.Warn("access already granted",
			slog.String("user_id", id), slog.String("product_id", req.ProductID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("access already granted"))
		return
	case errors.Is(err, directory.ErrUserNotFound):
		log.Warn("user not found", slog.String("user_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to grant access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to grant access"))
		return
	}

	log.Info("access granted",
		slog.String("user_id", id), slog.String("product_id", req.ProductID))
	render.JSON(w, r, response.StatusOKWithData(access))
}
