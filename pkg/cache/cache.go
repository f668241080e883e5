// Package cache exposes the invalidation-capable key/value store the catalog
// uses. The creation flow only ever removes keys; repopulation happens on the
// read side, outside this service.
package cache

import "context"

// AllProductsKey is the single cache key invalidated on every successful
// product creation.
const AllProductsKey = "all_products"

// Store is the minimal cache surface the creation flow needs.
type Store interface {
	// Remove deletes a key. Removing a key that is not present is not an
	// error.
	Remove(ctx context.Context, key string) error
	Close() error
}
