// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/productos/internal/store/db"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*db.Product, error)

	// FindByName retrieves a single product by its name, ignoring case.
	// Returns ErrProductNotFound if no product has that name.
	FindByName(ctx context.Context, name string) (*db.Product, error)

	// FindAll returns all products ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]db.Product, error)

	// Save inserts the product when its ID is zero and replaces every field of the stored row otherwise.
	// Returns ErrProductNotFound if the ID does not exist and ErrNameTaken if another product has the same name.
	Save(ctx context.Context, product db.Product) (*db.Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
