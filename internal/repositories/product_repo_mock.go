package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It enforces the same uniqueness guarantees as the GORM implementation so
// the wiring behaves identically without a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Create adds a new product, rejecting duplicate SKUs and (name, brand) pairs.
func (r *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU {
			return fmt.Errorf("%w: sku %s", ErrDuplicateSKU, product.SKU)
		}
		if p.Name == product.Name && p.Brand == product.Brand {
			return fmt.Errorf("%w: name %q, brand %q", ErrDuplicateSKU, product.Name, product.Brand)
		}
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// ExistsBySKU reports whether a product with the given SKU is stored.
func (r *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByNameAndBrand reports whether a product with the given name and
// brand pair is stored.
func (r *MockProductRepository) ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Name == name && p.Brand == brand {
			return true, nil
		}
	}
	return false, nil
}

// CountCreatedSince counts products created at or after the given instant.
func (r *MockProductRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, p := range r.products {
		if !p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
