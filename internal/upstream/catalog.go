package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/content-admin/internal/models"
)

// ListProducts возвращает страницу продуктов и общее количество.
// page и limit со значением 0 опускаются — бекенд тогда отдаёт всё.
func (c *Client) ListProducts(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	const op = "upstream.ListProducts"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/products", pageQuery(page, limit), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	var products []models.Product
	if err = decodeSlice(raw, "products", &products); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return products, totalCount(raw), nil
}

// GetProduct возвращает продукт по идентификатору.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "upstream.GetProduct"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/products/"+id, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var product models.Product
	if err = decodeObject(raw, &product); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &product, nil
}

// CreateProduct создаёт продукт.
func (c *Client) CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error) {
	return c.writeProduct(ctx, http.MethodPost, "/api/products", req)
}

// UpdateProduct изменяет продукт. Бекенд принимает частичное обновление,
// панель всегда шлёт полную форму.
func (c *Client) UpdateProduct(ctx context.Context, id string, req models.DummyProduct) (*models.Product, error) {
	return c.writeProduct(ctx, http.MethodPatch, "/api/products/"+id, req)
}

func (c *Client) writeProduct(ctx context.Context, method, path string, body models.DummyProduct) (*models.Product, error) {
	const op = "upstream.writeProduct"
	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var product models.Product
	if len(raw) > 0 {
		if err = decodeObject(raw, &product); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return &product, nil
}

// DeleteProduct удаляет продукт.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.deleteByPath(ctx, "upstream.DeleteProduct", "/api/products/"+id)
}

// ListCategories возвращает страницу категорий и общее количество.
func (c *Client) ListCategories(ctx context.Context, page, limit int) ([]models.Category, int, error) {
	const op = "upstream.ListCategories"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/categories", pageQuery(page, limit), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	var categories []models.Category
	if err = decodeSlice(raw, "categories", &categories); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return categories, totalCount(raw), nil
}

// CreateCategory создаёт категорию.
func (c *Client) CreateCategory(ctx context.Context, req models.DummyCategory) error {
	return c.writeJSON(ctx, "upstream.CreateCategory", http.MethodPost, "/api/categories", req)
}

// UpdateCategory изменяет категорию.
func (c *Client) UpdateCategory(ctx context.Context, id string, req models.DummyCategory) error {
	return c.writeJSON(ctx, "upstream.UpdateCategory", http.MethodPatch, "/api/categories/"+id, req)
}

// DeleteCategory удаляет категорию.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.deleteByPath(ctx, "upstream.DeleteCategory", "/api/categories/"+id)
}

// ListAllPages возвращает все страницы без пагинации.
// Используется редактором продуктов и сверкой наследования категорий.
func (c *Client) ListAllPages(ctx context.Context) ([]models.Page, error) {
	const op = "upstream.ListAllPages"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/pages/all", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var pages []models.Page
	if err = decodeSlice(raw, "pages", &pages); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pages, nil
}

// ListPages возвращает страницу списка страниц и общее количество.
func (c *Client) ListPages(ctx context.Context, page, limit int) ([]models.Page, int, error) {
	const op = "upstream.ListPages"
	req, err := c.newRequest(ctx, http.MethodGet, "/api/pages", pageQuery(page, limit), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := c.do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	var pages []models.Page
	if err = decodeSlice(raw, "pages", &pages); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return pages, totalCount(raw), nil
}

// CreatePage создаёт страницу.
func (c *Client) CreatePage(ctx context.Context, req models.DummyPage) error {
	return c.writeJSON(ctx, "upstream.CreatePage", http.MethodPost, "/api/pages", req)
}

// UpdatePage изменяет страницу.
func (c *Client) UpdatePage(ctx context.Context, id string, req models.DummyPage) error {
	return c.writeJSON(ctx, "upstream.UpdatePage", http.MethodPatch, "/api/pages/"+id, req)
}

// DeletePage удаляет страницу.
func (c *Client) DeletePage(ctx context.Context, id string) error {
	return c.deleteByPath(ctx, "upstream.DeletePage", "/api/pages/"+id)
}

func (c *Client) writeJSON(ctx context.Context, op, method, path string, body any) error {
	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) deleteByPath(ctx context.Context, op, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = c.do(req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
