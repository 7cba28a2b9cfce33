// Package store provides an interface for product storage operations.
package store

import (
	"context"
)

// Product is a single catalog record as persisted in the collection.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// ProductStore is an interface for product storage operations.
// The whole collection is read and written at once; implementations keep no state between calls,
// so every call observes the latest persisted collection.
type ProductStore interface {
	// LoadAll reads the persisted collection in insertion order.
	// Returns a StorageError if the collection cannot be read or is not well-formed.
	LoadAll(ctx context.Context) ([]Product, error)

	// SaveAll replaces the persisted collection with products.
	// Readers never observe a partially written collection.
	// Returns a StorageError if the collection cannot be written.
	SaveAll(ctx context.Context, products []Product) error
}

// NextID returns the id for a new product: 1 for an empty collection, otherwise the highest id plus one.
// Ids of deleted products are never handed out again as long as a higher id remains.
func NextID(products []Product) int64 {
	var maxID int64
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

// IndexByID returns the position of the product with the given id, or -1 if absent.
func IndexByID(products []Product, id int64) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
