// Package catalog содержит бизнес-логику каталога: продукты, страницы
// и категории. Самое содержательное здесь — наследование страниц от
// категорий: выбранная в продукте категория неявно включает все свои
// страницы, а явно выбранные страницы дедуплицируются против них.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/models"
)

// Backend описывает нужную каталогу часть клиента бекенда.
type Backend interface {
	ListProducts(ctx context.Context, page, limit int) ([]models.Product, int, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req models.DummyProduct) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context, page, limit int) ([]models.Category, int, error)
	CreateCategory(ctx context.Context, req models.DummyCategory) error
	UpdateCategory(ctx context.Context, id string, req models.DummyCategory) error
	DeleteCategory(ctx context.Context, id string) error

	ListAllPages(ctx context.Context) ([]models.Page, error)
	ListPages(ctx context.Context, page, limit int) ([]models.Page, int, error)
	CreatePage(ctx context.Context, req models.DummyPage) error
	UpdatePage(ctx context.Context, id string, req models.DummyPage) error
	DeletePage(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования списков каталога.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует операции каталога.
type Service struct {
	backend Backend
	cache   Cache
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(backend Backend, cache Cache, log *slog.Logger) *Service {
	return &Service{backend: backend, cache: cache, log: log}
}

const allPagesKey = "pages:all"

// Products возвращает страницу продуктов.
func (s *Service) Products(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	return s.backend.ListProducts(ctx, page, limit)
}

// Product возвращает продукт по идентификатору.
func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	return s.backend.GetProduct(ctx, id)
}

// CreateProduct создаёт продукт.
func (s *Service) CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error) {
	return s.backend.CreateProduct(ctx, req)
}

// UpdateProduct изменяет продукт.
func (s *Service) UpdateProduct(ctx context.Context, id string, req models.DummyProduct) (*models.Product, error) {
	return s.backend.UpdateProduct(ctx, id, req)
}

// DeleteProduct удаляет продукт.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.backend.DeleteProduct(ctx, id)
}

// ResolvePages возвращает эффективный набор страниц продукта:
// страницы всех выбранных категорий плюс явно выбранные страницы.
// Дубликаты схлопываются по идентификатору, категорийные страницы идут
// первыми, порядок внутри каждого источника сохраняется.
func (s *Service) ResolvePages(ctx context.Context, product *models.Product) ([]models.Page, error) {
	const op = "catalog.ResolvePages"

	all, err := s.allPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byID := make(map[string]models.Page, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	selectedCategories := make(map[string]bool, len(product.Categories))
	for _, ref := range product.Categories {
		selectedCategories[ref.ID] = true
	}

	seen := make(map[string]bool)
	var result []models.Page

	// Страницы, унаследованные от категорий.
	for _, p := range all {
		for _, ref := range p.Categories {
			if selectedCategories[ref.ID] && !seen[p.ID] {
				seen[p.ID] = true
				result = append(result, p)
				break
			}
		}
	}

	// Явно выбранные страницы, не покрытые категориями.
	for _, ref := range product.Pages {
		if seen[ref.ID] {
			continue
		}
		page, ok := byID[ref.ID]
		if !ok {
			// Страница могла быть удалена после сохранения продукта.
			continue
		}
		seen[ref.ID] = true
		result = append(result, page)
	}
	return result, nil
}

func (s *Service) allPages(ctx context.Context) ([]models.Page, error) {
	var cached []models.Page
	found, err := s.cache.Get(ctx, allPagesKey, &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	pages, err := s.backend.ListAllPages(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, allPagesKey, pages, time.Hour); err != nil {
		s.log.Warn("failed to cache pages", sl.Err(err))
	}
	return pages, nil
}

// Categories возвращает страницу категорий.
func (s *Service) Categories(ctx context.Context, page, limit int) ([]models.Category, int, error) {
	return s.backend.ListCategories(ctx, page, limit)
}

// CreateCategory создаёт категорию.
func (s *Service) CreateCategory(ctx context.Context, req models.DummyCategory) error {
	return s.backend.CreateCategory(ctx, req)
}

// UpdateCategory изменяет категорию.
func (s *Service) UpdateCategory(ctx context.Context, id string, req models.DummyCategory) error {
	return s.backend.UpdateCategory(ctx, id, req)
}

// DeleteCategory удаляет категорию.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.backend.DeleteCategory(ctx, id)
}

// Pages возвращает страницу списка страниц.
func (s *Service) Pages(ctx context.Context, page, limit int) ([]models.Page, int, error) {
	return s.backend.ListPages(ctx, page, limit)
}

// AllPages возвращает все страницы без пагинации.
func (s *Service) AllPages(ctx context.Context) ([]models.Page, error) {
	return s.allPages(ctx)
}

// CreatePage создаёт страницу и сбрасывает кэш полного списка.
func (s *Service) CreatePage(ctx context.Context, req models.DummyPage) error {
	if err := s.backend.CreatePage(ctx, req); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	return nil
}

// UpdatePage изменяет страницу и сбрасывает кэш полного списка.
func (s *Service) UpdatePage(ctx context.Context, id string, req models.DummyPage) error {
	if err := s.backend.UpdatePage(ctx, id, req); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	return nil
}

// DeletePage удаляет страницу и сбрасывает кэш полного списка.
func (s *Service) DeletePage(ctx context.Context, id string) error {
	if err := s.backend.DeletePage(ctx, id); err != nil {
		return err
	}
	s.invalidatePages(ctx)
	return nil
}

func (s *Service) invalidatePages(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, allPagesKey); err != nil {
		s.log.Warn("failed to invalidate pages cache", sl.Err(err))
	}
}

// DeleteMany удаляет сущности независимым конкурентным веером через
// переданную функцию удаления. Возвращает идентификаторы, которые
// удалить не удалось; успевшие удаления не откатываются.
func (s *Service) DeleteMany(ctx context.Context, ids []string, remove func(context.Context, string) error) []string {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := remove(ctx, id); err != nil {
				s.log.Error("failed to delete entity", slog.String("id", id), sl.Err(err))
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	return failed
}
