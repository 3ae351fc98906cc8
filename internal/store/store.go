// Package store provides the memory item storage interface and SQLite
// implementation. Every operation is scoped by user id; there is no way
// to reach another user's rows through this package.
package store

import (
	"context"
	"errors"

	"github.com/linguamem/linguamem/internal/model"
)

// ErrNotFound is returned when a memory item does not exist or is not
// owned by the requesting user. The two cases are deliberately
// indistinguishable.
var ErrNotFound = errors.New("memory item not found")

// UpsertParams holds parameters for creating or updating a memory item.
type UpsertParams struct {
	UserID   int64
	Category model.Category
	Key      string
	Content  string
	Status   model.Status // empty: keep existing status, or category default on create
	Meta     string       // opaque JSON side channel, stored verbatim when non-empty
}

// GetParams holds parameters for retrieving a memory item.
type GetParams struct {
	UserID   int64
	Category model.Category
	Key      string
}

// ListParams holds parameters for listing memory items. Category and
// Status are optional, composable filters.
type ListParams struct {
	UserID   int64
	Category model.Category
	Status   model.Status
	Limit    int
	Offset   int
}

// ExportParams holds parameters for a full dump. UserID 0 exports all
// users; Category narrows to one category.
type ExportParams struct {
	UserID   int64
	Category model.Category
}

// Store defines the memory item storage interface.
type Store interface {
	// Upsert creates or updates the item identified by
	// (UserID, Category, Key). Returns the resulting item.
	Upsert(ctx context.Context, p UpsertParams) (*model.MemoryItem, error)

	// Get retrieves one item. Returns ErrNotFound if absent.
	Get(ctx context.Context, p GetParams) (*model.MemoryItem, error)

	// List returns items most-recently-updated first.
	List(ctx context.Context, p ListParams) ([]model.MemoryItem, error)

	// Delete removes the item by id, ownership-checked against userID.
	// Returns ErrNotFound when the item is absent or owned by someone else.
	Delete(ctx context.Context, id string, userID int64) error

	// ExportAll returns every matching item, unbounded, ordered by
	// user, category, key.
	ExportAll(ctx context.Context, p ExportParams) ([]model.MemoryItem, error)

	// Close closes the store.
	Close() error
}
