package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/magabrotheeeer/content-admin/internal/models"
)

// ListUsers возвращает страницу пользователей и общее количество.
func (c *Client) ListUsers(ctx context.Context, page, limit int) ([]models.User, int, error) {
	const op = "upstream.ListUsers"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/admin/users", pageQuery(page, limit), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	var users []models.User
	if err = decodeSlice(raw, "users", &users); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, totalCount(raw), nil
}

// GetUser возвращает пользователя по идентификатору, включая журнал
// обращений к ИИ.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "upstream.GetUser"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/admin/users/"+id, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var user models.User
	if err = decodeObject(raw, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// DeleteUser удаляет пользователя.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	const op = "upstream.DeleteUser"
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/auth/admin/users/"+id, nil, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConfirmUser подтверждает учётную запись пользователя.
func (c *Client) ConfirmUser(ctx context.Context, id string) error {
	const op = "upstream.ConfirmUser"
	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/admin/confirm-user/"+id, nil, struct{}{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GrantAccess выдаёт пользователю доступ к продукту.
// Дату окончания доступа назначает бекенд, она возвращается вызывающему.
func (c *Client) GrantAccess(ctx context.Context, userID, productID string) (*time.Time, error) {
	const op = "upstream.GrantAccess"
	body := map[string]string{"productId": productID}
	req, err := c.newRequest(ctx, http.MethodPost,
		"/api/auth/admin/users/"+userID+"/grant-product-access", nil, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var resp struct {
		EndDate *time.Time `json:"endDate"`
	}
	if err = decodeObject(raw, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.EndDate, nil
}

// RevokeAccess отзывает доступ пользователя к продукту.
// Бекенд может ответить 200 с success=false — это тоже ошибка.
func (c *Client) RevokeAccess(ctx context.Context, userID, productID string) error {
	const op = "upstream.RevokeAccess"
	req, err := c.newRequest(ctx, http.MethodDelete,
		"/api/auth/admin/users/"+userID+"/product-access/"+productID, nil, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	var resp struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if len(raw) > 0 {
		if err = decodeObject(raw, &resp); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if resp.Success != nil && !*resp.Success {
			return fmt.Errorf("%s: %w", op, &APIError{StatusCode: http.StatusOK, Message: resp.Message})
		}
	}
	return nil
}

// SyncProductStatus отправляет бекенду исправленный список доступов
// пользователя. Повторная отправка того же состояния для бекенда no-op,
// поэтому вызов безопасно ретраится следующим циклом сверки.
func (c *Client) SyncProductStatus(ctx context.Context, userID string, access []models.ProductAccess) error {
	const op = "upstream.SyncProductStatus"
	body := map[string]any{"products": access}
	req, err := c.newRequest(ctx, http.MethodPost,
		"/api/auth/admin/users/"+userID+"/update-product-status", nil, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
