// Package revoke реализует HTTP-обработчик отзыва доступа к продукту.
// Отзыв — необратимая операция: без явного confirm=true запрос
// отклоняется, продукт остаётся у пользователя.
package revoke

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
)

// Handler управляет HTTP-запросами отзыва доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс отзыва доступа.
type Service interface {
	RevokeAccess(ctx context.Context, actor, userID, productID string, confirmed bool) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отозвать у пользователя доступ к продукту
// @Description Требует подтверждения оператора: confirm=true в строке запроса.
// @Tags Access
// @Produce  json
// @Param id path string true "Идентификатор пользователя"
// @Param productId path string true "Идентификатор продукта"
// @Param confirm query bool true "Подтверждение отзыва"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Отзыв не подтверждён"
// @Failure 404 {object} response.ErrorResponse "Доступ не найден"
// @Security BearerAuth
// @Router /users/{id}/access/{productId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.revoke"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	productID := chi.URLParam(r, "productId")
	if id == "" || productID == "" {
		log.Error("empty user or product id")
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

	confirmed := r.URL.Query().Get("confirm") == "true"

	err := h.service.RevokeAccess(r.Context(), actor, id, productID, confirmed)
	switch {
	case errors.Is(err, directory.ErrNotConfirmed):
		log.Warn("revoke not confirmed",
			slog.String("user_id", id), slog.String("product_id", productID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("revoke requires confirm=true"))
		return
	case errors.Is(err, directory.ErrAccessNotFound):
		log.Warn("access not found",
			slog.String("user_id", id), slog.String("product_id", productID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("access not found"))
		return
	case errors.Is(err, directory.ErrUserNotFound):
		log.Warn("user not found", slog.String("user_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to revoke access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to revoke access"))
		return
	}

	log.Info("access revoked",
		slog.String("user_id", id), slog.String("product_id", productID))
	render.JSON(w, r, response.OK())
}
