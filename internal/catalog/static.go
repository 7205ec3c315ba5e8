package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

// StaticCatalog: in-memory каталог для локального запуска и тестов.
type StaticCatalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	err      error
	calls    int
	lastIDs  []string
}

// NewStaticCatalog создаёт каталог с заданным набором товаров.
func NewStaticCatalog(products ...domain.Product) *StaticCatalog {
	c := &StaticCatalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// Put добавляет или заменяет товар.
func (c *StaticCatalog) Put(product domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = product
}

// SetError заставляет Resolve возвращать ошибку недоступности; nil снимает сбой.
func (c *StaticCatalog) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Calls возвращает количество вызовов Resolve.
func (c *StaticCatalog) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

// LastRequest возвращает идентификаторы последнего вызова.
func (c *StaticCatalog) LastRequest() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.lastIDs...)
}

// Products возвращает все товары каталога.
func (c *StaticCatalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		result = append(result, p)
	}
	return result
}

// Resolve возвращает известные каталогу товары из списка.
func (c *StaticCatalog) Resolve(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	c.mu.Lock()
	c.calls++
	c.lastIDs = append([]string(nil), productIDs...)
	injected := c.err
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(domain.ErrCatalogUnavailable, err)
	}
	if injected != nil {
		return nil, errors.Join(domain.ErrCatalogUnavailable, injected)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := c.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

var _ domain.CatalogClient = (*StaticCatalog)(nil)
