package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-admin/internal/config"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

func newTestClient(srv *httptest.Server) *Client {
	return New(config.Upstream{
		BaseURL:      srv.URL,
		ServiceToken: "service-token",
		Timeout:      5 * time.Second,
	})
}

func TestListUsers_ResponseShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantUsers int
		wantTotal int
		wantErr   error
	}{
		{
			name:      "голый массив",
			body:      `[{"_id":"u1"},{"_id":"u2"}]`,
			wantUsers: 2,
			wantTotal: 0,
		},
		{
			name:      "конверт с ключом users",
			body:      `{"users":[{"_id":"u1"}],"totalCount":42}`,
			wantUsers: 1,
			wantTotal: 42,
		},
		{
			name:      "конверт с ключом data",
			body:      `{"data":[{"_id":"u1"},{"_id":"u2"},{"_id":"u3"}],"totalCount":3}`,
			wantUsers: 3,
			wantTotal: 3,
		},
		{
			name:    "незнакомая форма ответа",
			body:    `{"items":[{"_id":"u1"}]}`,
			wantErr: models.ErrUnexpectedShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			users, total, err := newTestClient(srv).ListUsers(context.Background(), 1, 30)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, users, tt.wantUsers)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestListUsers_SendsBearerTokenAndPaging(t *testing.T) {
	var gotAuth, gotPage, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv).ListUsers(context.Background(), 2, 50)

	assert.NoError(t, err)
	assert.Equal(t, "Bearer service-token", gotAuth)
	assert.Equal(t, "2", gotPage)
	assert.Equal(t, "50", gotLimit)
}

func TestGetUser_UnwrapsDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/admin/users/u1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"_id":"u1","email":"user@example.com"}}`))
	}))
	defer srv.Close()

	user, err := newTestClient(srv).GetUser(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestDo_NonOKStatusBecomesAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "message из тела",
			status:      http.StatusConflict,
			body:        `{"message":"user already has access to this product"}`,
			wantMessage: "user already has access to this product",
		},
		{
			name:        "поле error как запасной вариант",
			status:      http.StatusBadRequest,
			body:        `{"error":"invalid product id"}`,
			wantMessage: "invalid product id",
		},
		{
			name:        "тело без сообщения",
			status:      http.StatusInternalServerError,
			body:        `{}`,
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv).GetUser(context.Background(), "u1")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestGrantAccess_ReturnsServerEndDate(t *testing.T) {
	endDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/admin/users/u1/grant-product-access", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["productId"])

		_, _ = w.Write([]byte(`{"endDate":"2025-07-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv).GrantAccess(context.Background(), "u1", "p1")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, endDate.Equal(*got))
}

func TestRevokeAccess_SuccessFalseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = w.Write([]byte(`{"success":false,"message":"access not found"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).RevokeAccess(context.Background(), "u1", "p1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "access not found", apiErr.Message)
}

func TestRevokeAccess_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).RevokeAccess(context.Background(), "u1", "p1")

	assert.NoError(t, err)
}

func TestSyncProductStatus_SendsCorrectedList(t *testing.T) {
	var got struct {
		Products []models.ProductAccess `json:"products"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/admin/users/u1/update-product-status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	access := []models.ProductAccess{
		{ProductID: "p1", IsActive: false},
		{ProductID: "p2", IsActive: true},
	}
	err := newTestClient(srv).SyncProductStatus(context.Background(), "u1", access)

	assert.NoError(t, err)
	require.Len(t, got.Products, 2)
	assert.False(t, got.Products[0].IsActive)
	assert.True(t, got.Products[1].IsActive)
}

func TestConfirmUser_EmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/admin/confirm-user/u1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv).ConfirmUser(context.Background(), "u1")

	assert.NoError(t, err)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // сервер уже остановлен, запрос обязан вернуть ошибку

	_, _, err := newTestClient(srv).ListUsers(context.Background(), 1, 30)

	assert.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "сетевые ошибки не маскируются под APIError")
}
