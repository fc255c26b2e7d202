package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry — одна запись журнала действий панели.
type AuditEntry struct {
	ID        string    // Уникальный идентификатор записи
	Action    string    // Тип действия: grant, revoke, confirm, delete, expire
	Actor     string    // Кто выполнил: имя оператора или "reconciler"
	UserID    string    // Пользователь, которого касается действие
	ProductID string    // Продукт, если применимо
	Detail    string    // Произвольное пояснение
	CreatedAt time.Time // Время записи
}

// Действия, записываемые в журнал.
const (
	ActionGrant   = "grant"
	ActionRevoke  = "revoke"
	ActionConfirm = "confirm"
	ActionDelete  = "delete"
	ActionExpire  = "expire"
)

// RecordAction сохраняет запись журнала и возвращает её идентификатор.
func (s *Storage) RecordAction(ctx context.Context, entry AuditEntry) (string, error) {
	const op = "storage.RecordAction"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	query := `INSERT INTO audit_log (id, action, actor, user_id, product_id, detail)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	var newID string
	if err := s.DB.QueryRowContext(ctx, query,
		entry.ID, entry.Action, entry.Actor, entry.UserID,
		nullable(entry.ProductID), nullable(entry.Detail)).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListActions возвращает последние записи журнала, новые первыми.
func (s *Storage) ListActions(ctx context.Context, limit int) ([]AuditEntry, error) {
	const op = "storage.ListActions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, action, actor, user_id, product_id, detail, created_at
			  FROM audit_log
			  ORDER BY created_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var productID, detail sql.NullString
		if err = rows.Scan(&e.ID, &e.Action, &e.Actor, &e.UserID,
			&productID, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.ProductID = productID.String
		e.Detail = detail.String
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
