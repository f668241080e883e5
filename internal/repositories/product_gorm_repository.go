package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts a new product. Duplicate-key violations from the unique
// indexes on sku and (name, brand) are reported as ErrDuplicateSKU.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: sku %s", ErrDuplicateSKU, product.SKU)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// ExistsBySKU reports whether a product with the given SKU is persisted.
func (r *GORMProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check SKU %s: %w", sku, err)
	}
	return count > 0, nil
}

// ExistsByNameAndBrand reports whether a product with the given name and
// brand pair is persisted.
func (r *GORMProductRepository) ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("name = ? AND brand = ?", name, brand).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check name %q for brand %q: %w", name, brand, err)
	}
	return count > 0, nil
}

// CountCreatedSince counts products created at or after the given instant.
func (r *GORMProductRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products created since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}
