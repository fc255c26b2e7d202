package grant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-admin/internal/models"
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
)

// MockService реализует интерфейс grant.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GrantAccess(ctx context.Context, actor, userID, productID string) (*models.ProductAccess, error) {
	args := m.Called(ctx, actor, userID, productID)
	if res := args.Get(0); res != nil {
		return res.(*models.ProductAccess), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(body string, userID string, authenticated bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/users/"+userID+"/access", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", userID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if authenticated {
		ctx = context.WithValue(ctx, middlewarectx.User, "admin")
	}
	return req.WithContext(ctx)
}

func TestGrantHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		authenticated  bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "успешная выдача доступа",
			body:          `{"productId":"p1"}`,
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("GrantAccess", mock.Anything, "admin", "u1", "p1").Return(&models.ProductAccess{
					ProductID: "p1",
					IsActive:  true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isActive":true`,
		},
		{
			name:          "доступ уже выдан",
			body:          `{"productId":"p1"}`,
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("GrantAccess", mock.Anything, "admin", "u1", "p1").
					Return(nil, directory.ErrAccessExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `access already granted`,
		},
		{
			name:          "пользователь не найден",
			body:          `{"productId":"p1"}`,
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("GrantAccess", mock.Anything, "admin", "u1", "p1").
					Return(nil, directory.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `user not found`,
		},
		{
			name:           "пустой productId не проходит валидацию",
			body:           `{"productId":""}`,
			authenticated:  true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `ProductID`,
		},
		{
			name:           "без оператора в контексте",
			body:           `{"productId":"p1"}`,
			authenticated:  false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:          "отказ бекенда",
			body:          `{"productId":"p1"}`,
			authenticated: true,
			setupMock: func(m *MockService) {
				m.On("GrantAccess", mock.Anything, "admin", "u1", "p1").
					Return(nil, errors.New("server error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to grant access`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(tt.body, "u1", tt.authenticated))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
