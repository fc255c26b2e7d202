// Package login реализует HTTP-обработчик входа оператора панели.
//
// Учетные данные сверяются с конфигом (bcrypt-хэш), при успехе
// выдаётся JWT токен панели. Токен к бекенду отсюда не ходит:
// шлюз использует собственный сервисный токен.
package login

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-admin/internal/config"
	"github.com/magabrotheeeer/content-admin/internal/http/response"
	"github.com/magabrotheeeer/content-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/content-admin/internal/lib/password"
	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Handler управляет HTTP-запросами на вход оператора.
type Handler struct {
	log      *slog.Logger
	admin    config.Admin
	maker    jwt.Maker
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, admin config.Admin, maker jwt.Maker) *Handler {
	return &Handler{
		log:      log,
		admin:    admin,
		maker:    maker,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход оператора панели
// @Description Проверяет учетные данные и возвращает JWT токен.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Учетные данные"
// @Success 200 {object} map[string]any "Токен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	if req.Username != h.admin.Username ||
		password.CompareHash(h.admin.PasswordHash, req.Password) != nil {
		log.Error("invalid credentials", slog.String("username", req.Username))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid username or password"))
		return
	}

	token, err := h.maker.GenerateToken(req.Username, "admin")
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate token"))
		return
	}

	log.Info("operator logged in", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token": token,
	}))
}
