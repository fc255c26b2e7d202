// Package directory содержит бизнес-логику работы с пользователями и их
// доступами к продуктам. Сервис держит локальную read-mostly проекцию
// последней загруженной страницы пользователей: по ней рисуются списки
// и работает сверка истечения. Источник истины — всегда бекенд, любая
// мутация сначала подтверждается им и только потом попадает в проекцию.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
	"github.com/magabrotheeeer/content-admin/internal/storage/repository"
)

// Ошибки бизнес-логики доступов.
var (
	// ErrAccessExists — у пользователя уже есть запись для этого продукта,
	// активная или нет. Выдача блокируется на стороне панели.
	ErrAccessExists = errors.New("user already has an access record for this product")
	// ErrAccessNotFound — записи для продукта у пользователя нет.
	ErrAccessNotFound = errors.New("user has no access record for this product")
	// ErrNotConfirmed — отзыв доступа без явного подтверждения оператора.
	ErrNotConfirmed = errors.New("revoke requires explicit confirmation")
	// ErrUserNotFound — пользователь не найден ни в проекции, ни на бекенде.
	ErrUserNotFound = errors.New("user not found")
)

// Backend описывает нужную сервису часть клиента бекенда.
type Backend interface {
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ConfirmUser(ctx context.Context, id string) error
	GrantAccess(ctx context.Context, userID, productID string) (*time.Time, error)
	RevokeAccess(ctx context.Context, userID, productID string) error
	ListProducts(ctx context.Context, page, limit int) ([]models.Product, int, error)
}

// Cache описывает методы для кэширования снапшотов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Auditor записывает действия оператора в журнал. Может быть nil.
type Auditor interface {
	RecordAction(ctx context.Context, entry repository.AuditEntry) (string, error)
}

// UserPage — страница списка пользователей с подставленными именами продуктов.
type UserPage struct {
	Users      []models.User `json:"users"`
	TotalCount int           `json:"totalCount"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	Stale      bool          `json:"stale,omitempty"` // true, если бекенд был недоступен и отдан кэш
}

// Service реализует операции над пользователями и их доступами.
type Service struct {
	backend Backend
	cache   Cache
	audit   Auditor
	log     *slog.Logger

	// onReload дергается после успешной загрузки списка,
	// чтобы сверка прошла немедленно, не дожидаясь тикера.
	onReload func()

	mu           sync.RWMutex
	users        []models.User
	totalCount   int
	productNames map[string]string
}

// New создаёт сервис. audit может быть nil.
func New(backend Backend, cache Cache, audit Auditor, log *slog.Logger) *Service {
	return &Service{
		backend:      backend,
		cache:        cache,
		audit:        audit,
		log:          log,
		productNames: map[string]string{},
	}
}

// SetReloadHook задаёт колбэк, вызываемый после загрузки списка пользователей.
func (s *Service) SetReloadHook(hook func()) {
	s.onReload = hook
}

const unknownProduct = "Unknown Product"

func cacheKey(page, limit int) string {
	return fmt.Sprintf("users:%d:%d", page, limit)
}

// Load загружает страницу пользователей с бекенда, подставляет имена
// продуктов в записи доступа и обновляет локальную проекцию. Если бекенд
// недоступен, отдаётся прежний закэшированный вид с пометкой Stale.
func (s *Service) Load(ctx context.Context, page, limit int) (*UserPage, error) {
	const op = "directory.Load"
	log := s.log.With(slog.String("op", op))

	names, err := s.loadProductNames(ctx)
	if err != nil {
		log.Warn("failed to refresh product names, using last known", sl.Err(err))
	}

	users, total, err := s.backend.ListUsers(ctx, page, limit)
	if err != nil {
		var cached UserPage
		found, cacheErr := s.cache.Get(ctx, cacheKey(page, limit), &cached)
		if cacheErr != nil {
			log.Warn("cache lookup failed", sl.Err(cacheErr))
		}
		if found {
			log.Warn("backend unavailable, serving cached user page", sl.Err(err))
			cached.Stale = true
			return &cached, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range users {
		for j := range users[i].ProductAccess {
			pa := &users[i].ProductAccess[j]
			if name, ok := names[pa.ProductID]; ok {
				pa.ProductName = name
			} else if pa.ProductName == "" {
				pa.ProductName = unknownProduct
			}
		}
	}

	result := &UserPage{Users: users, TotalCount: total, Page: page, Limit: limit}

	s.mu.Lock()
	s.users = users
	s.totalCount = total
	s.mu.Unlock()

	if err := s.cache.Set(ctx, cacheKey(page, limit), result, 10*time.Minute); err != nil {
		log.Warn("failed to cache user page", sl.Err(err))
	}

	if s.onReload != nil {
		s.onReload()
	}
	return result, nil
}

func (s *Service) loadProductNames(ctx context.Context) (map[string]string, error) {
	products, _, err := s.backend.ListProducts(ctx, 0, 0)
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.productNames, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	s.mu.Lock()
	s.productNames = names
	s.mu.Unlock()
	return names, nil
}

// Users отдаёт копию текущей проекции для сверки.
func (s *Service) Users(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, len(s.users))
	copy(users, s.users)
	return users, nil
}

// Update заменяет проекцию исправленным сверкой списком.
func (s *Service) Update(users []models.User) {
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
}

// GetUser возвращает пользователя с бекенда, включая журнал обращений к ИИ.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "directory.GetUser"
	user, err := s.backend.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UserInteractions возвращает журнал обращений пользователя к ИИ,
// отфильтрованный по датам включительно. Правая граница трактуется как
// дата: запись за любое время этого дня попадает в выборку.
func (s *Service) UserInteractions(ctx context.Context, id string, from, to *time.Time) ([]models.AIInteraction, error) {
	const op = "directory.UserInteractions"
	user, err := s.backend.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.AIInteraction, 0, len(user.AIInteractions))
	for _, ai := range user.AIInteractions {
		if from != nil && ai.Timestamp.Before(*from) {
			continue
		}
		if to != nil && !ai.Timestamp.Before(to.AddDate(0, 0, 1)) {
			continue
		}
		result = append(result, ai)
	}
	return result, nil
}

// GrantAccess выдаёт пользователю доступ к продукту. Выдача блокируется,
// если запись для продукта уже есть — активная или погашенная. Дату
// окончания назначает бекенд; локальная проекция пополняется только
// после его подтверждения.
func (s *Service) GrantAccess(ctx context.Context, actor, userID, productID string) (*models.ProductAccess, error) {
	const op = "directory.GrantAccess"

	current, err := s.currentAccess(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, pa := range current {
		if pa.ProductID == productID {
			return nil, ErrAccessExists
		}
	}

	endDate, err := s.backend.GrantAccess(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	granted := models.ProductAccess{
		ProductID:   productID,
		ProductName: s.productName(productID),
		IsActive:    true,
		EndDate:     endDate,
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].ProductAccess = append(s.users[i].ProductAccess, granted)
			break
		}
	}
	s.mu.Unlock()

	s.recordAction(ctx, repository.ActionGrant, actor, userID, productID, "")
	s.log.Info("product access granted",
		slog.String("user_id", userID), slog.String("product_id", productID))
	return &granted, nil
}

// RevokeAccess отзывает доступ пользователя к продукту. Требует явного
// подтверждения оператора; без него запрос отклоняется до обращения к
// бекенду. Из проекции удаляется ровно одна запись и только после
// успешного ответа бекенда.
func (s *Service) RevokeAccess(ctx context.Context, actor, userID, productID string, confirmed bool) error {
	const op = "directory.RevokeAccess"

	if !confirmed {
		return ErrNotConfirmed
	}

	current, err := s.currentAccess(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	found := false
	for _, pa := range current {
		if pa.ProductID == productID {
			found = true
			break
		}
	}
	if !found {
		return ErrAccessNotFound
	}

	if err := s.backend.RevokeAccess(ctx, userID, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID != userID {
			continue
		}
		access := s.users[i].ProductAccess[:0:0]
		for _, pa := range s.users[i].ProductAccess {
			if pa.ProductID != productID {
				access = append(access, pa)
			}
		}
		s.users[i].ProductAccess = access
		break
	}
	s.mu.Unlock()

	s.recordAction(ctx, repository.ActionRevoke, actor, userID, productID, "")
	s.log.Info("product access revoked",
		slog.String("user_id", userID), slog.String("product_id", productID))
	return nil
}

// ConfirmUser подтверждает учётную запись пользователя.
func (s *Service) ConfirmUser(ctx context.Context, actor, userID string) error {
	const op = "directory.ConfirmUser"
	if err := s.backend.ConfirmUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users[i].IsConfirmed = true
			break
		}
	}
	s.mu.Unlock()

	s.recordAction(ctx, repository.ActionConfirm, actor, userID, "", "")
	return nil
}

// DeleteUser удаляет пользователя на бекенде и из проекции.
func (s *Service) DeleteUser(ctx context.Context, actor, userID string) error {
	const op = "directory.DeleteUser"
	if err := s.backend.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.removeFromProjection(userID)
	s.recordAction(ctx, repository.ActionDelete, actor, userID, "", "")
	return nil
}

// DeleteUsers удаляет пользователей независимым конкурентным веером.
// Частичный отказ не откатывает успевшие удаления: возвращается список
// идентификаторов, которые удалить не удалось.
func (s *Service) DeleteUsers(ctx context.Context, actor string, ids []string) []string {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := s.DeleteUser(ctx, actor, id); err != nil {
				s.log.Error("failed to delete user", slog.String("user_id", id), sl.Err(err))
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	return failed
}

// currentAccess возвращает список доступов пользователя: из проекции,
// а если пользователя там нет — свежий с бекенда.
func (s *Service) currentAccess(ctx context.Context, userID string) ([]models.ProductAccess, error) {
	s.mu.RLock()
	for _, u := range s.users {
		if u.ID == userID {
			access := make([]models.ProductAccess, len(u.ProductAccess))
			copy(access, u.ProductAccess)
			s.mu.RUnlock()
			return access, nil
		}
	}
	s.mu.RUnlock()

	user, err := s.backend.GetUser(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user.ProductAccess, nil
}

func (s *Service) productName(productID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name, ok := s.productNames[productID]; ok {
		return name
	}
	return unknownProduct
}

func (s *Service) removeFromProjection(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == userID {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return
		}
	}
}

func (s *Service) recordAction(ctx context.Context, action, actor, userID, productID, detail string) {
	if s.audit == nil {
		return
	}
	_, err := s.audit.RecordAction(ctx, repository.AuditEntry{
		Action:    action,
		Actor:     actor,
		UserID:    userID,
		ProductID: productID,
		Detail:    detail,
	})
	if err != nil {
		s.log.Warn("failed to record audit entry", sl.Err(err))
	}
}
