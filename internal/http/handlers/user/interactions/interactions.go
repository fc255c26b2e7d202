// Package interactions реализует HTTP-обработчик журнала обращений
// пользователя к ИИ с фильтром по диапазону дат.
package interactions

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Handler управляет HTTP-запросами журнала обращений к ИИ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выборки журнала.
type Service interface {
	UserInteractions(ctx context.Context, id string, from, to *time.Time) ([]models.AIInteraction, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал обращений пользователя к ИИ
// @Description Фильтры from и to — даты в формате 2006-01-02, обе включительно.
// @Tags Users
// @Produce  json
// @Param id path string true "Идентификатор пользователя"
// @Param from query string false "Начало диапазона"
// @Param to query string false "Конец диапазона"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 500 {object} response.ErrorResponse "Ошибка бекенда"
// @Security BearerAuth
// @Router /users/{id}/interactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.interactions"
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

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		log.Error("invalid from date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid from date, expected 2006-01-02"))
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		log.Error("invalid to date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid to date, expected 2006-01-02"))
		return
	}

	result, err := h.service.UserInteractions(r.Context(), id, from, to)
	if err != nil {
		log.Error("failed to load interactions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load interactions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count":        len(result),
		"interactions": result,
	}))
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
