// Package read реализует HTTP-обработчик карточки продукта.
package read

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

// Handler управляет HTTP-запросами карточки продукта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения продукта.
type Service interface {
	Product(ctx context.Context, id string) (*models.Product, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Карточка продукта
// @Tags Products
// @Produce  json
// @Param id path string true "Идентификатор продукта"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Пустой идентификатор"
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.read"
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

	render.JSON(w, r, response.StatusOKWithData(product))
}
