package login

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-admin/internal/config"
	"github.com/magabrotheeeer/content-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/content-admin/internal/lib/password"
)

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)

	admin := config.Admin{Username: "admin", PasswordHash: hash}
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешный вход",
			body:           `{"username":"admin","password":"correct-password"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"token"`,
		},
		{
			name:           "неверный пароль",
			body:           `{"username":"admin","password":"wrong"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `invalid username or password`,
		},
		{
			name:           "неизвестный оператор",
			body:           `{"username":"intruder","password":"correct-password"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `invalid username or password`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"username":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "пустой пароль не проходит валидацию",
			body:           `{"username":"admin","password":""}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Password`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(logger, admin, maker)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
