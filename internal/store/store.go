// Package store provides the document persistence layer: compressed JSON
// documents in a key-value backend, partitioned per store owner.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no document exists under the requested key
var ErrNotFound = errors.New("document not found")

// DocumentStore is the persistence collaborator the sync pipeline writes
// to and the read surface serves from. Every document belongs to exactly
// one owner; writes replace the previous document in full.
type DocumentStore interface {
	// Put marshals value to JSON and stores it under the owner's partition.
	Put(ctx context.Context, ownerID, doc string, value interface{}) error

	// Get unmarshals the stored document into out. Returns ErrNotFound if
	// the document does not exist.
	Get(ctx context.Context, ownerID, doc string, out interface{}) error

	// Exists reports whether the document is present.
	Exists(ctx context.Context, ownerID, doc string) (bool, error)
}

// Key builds the storage key for an owner's document
func Key(ownerID, doc string) string {
	return fmt.Sprintf("owner:%s:doc:%s", ownerID, doc)
}
