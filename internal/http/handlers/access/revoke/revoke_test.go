package revoke

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
)

// MockService реализует интерфейс revoke.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) RevokeAccess(ctx context.Context, actor, userID, productID string, confirmed bool) error {
	args := m.Called(ctx, actor, userID, productID, confirmed)
	return args.Error(0)
}

func newRequest(userID, productID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/users/"+userID+"/access/"+productID+query, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", userID)
	rctx.URLParams.Add("productId", productID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middlewarectx.User, "admin")
	return req.WithContext(ctx)
}

func TestRevokeHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешный отзыв с подтверждением",
			query: "?confirm=true",
			setupMock: func(m *MockService) {
				m.On("RevokeAccess", mock.Anything, "admin", "u1", "p1", true).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:  "без подтверждения — отказ",
			query: "",
			setupMock: func(m *MockService) {
				m.On("RevokeAccess", mock.Anything, "admin", "u1", "p1", false).
					Return(directory.ErrNotConfirmed)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `revoke requires confirm=true`,
		},
		{
			name:  "confirm=false трактуется как неподтверждённый",
			query: "?confirm=false",
			setupMock: func(m *MockService) {
				m.On("RevokeAccess", mock.Anything, "admin", "u1", "p1", false).
					Return(directory.ErrNotConfirmed)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `revoke requires confirm=true`,
		},
		{
			name:  "доступ не найден",
			query: "?confirm=true",
			setupMock: func(m *MockService) {
				m.On("RevokeAccess", mock.Anything, "admin", "u1", "p1", true).
					Return(directory.ErrAccessNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `access not found`,
		},
		{
			name:  "отказ бекенда",
			query: "?confirm=true",
			setupMock: func(m *MockService) {
				m.On("RevokeAccess", mock.Anything, "admin", "u1", "p1", true).
					Return(errors.New("server error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to revoke access`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest("u1", "p1", tt.query))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
