package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-admin/internal/models"
	"github.com/magabrotheeeer/content-admin/internal/services/directory"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Load(ctx context.Context, page, limit int) (*directory.UserPage, error) {
	args := m.Called(ctx, page, limit)
	if res := args.Get(0); res != nil {
		return res.(*directory.UserPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная загрузка списка",
			url:  "/users?page=2&limit=10",
			setupMock: func(m *MockService) {
				m.On("Load", mock.Anything, 2, 10).Return(&directory.UserPage{
					Users:      []models.User{{ID: "u1", Email: "user@example.com"}},
					TotalCount: 1,
					Page:       2,
					Limit:      10,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"user@example.com"`,
		},
		{
			name: "параметры пагинации по умолчанию",
			url:  "/users",
			setupMock: func(m *MockService) {
				m.On("Load", mock.Anything, 1, 30).Return(&directory.UserPage{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name: "устаревший кэшированный ответ помечается",
			url:  "/users",
			setupMock: func(m *MockService) {
				m.On("Load", mock.Anything, 1, 30).Return(&directory.UserPage{
					Users: []models.User{{ID: "u1"}},
					Stale: true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"stale":true`,
		},
		{
			name: "бекенд недоступен и кэша нет",
			url:  "/users",
			setupMock: func(m *MockService) {
				m.On("Load", mock.Anything, 1, 30).Return(nil, errors.New("backend down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to load users`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
