package repositories

import (
	"context"
	"errors"
	"time"

	"catalog/internal/models"
)

// ErrDuplicateSKU is returned by Create when the storage-level unique
// constraint on sku (or the name+brand pair) rejects the insert. The
// existence pre-checks in the validation layer are not transactionally
// isolated from the insert, so this is the authoritative uniqueness signal.
var ErrDuplicateSKU = errors.New("product with this SKU already exists")

// ProductRepository defines the persistence operations the creation flow
// needs. Every call takes a context so cancellation can abort the sequence
// at the next checkpoint.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
