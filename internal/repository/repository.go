// Package repository declares the storage capabilities the services depend on.
// Implementations live in subpackages (memory, sqlite, redis); services only
// ever see these interfaces, so a backing store can be swapped in server.go
// without touching catalog, ledger or summary logic.
package repository

import (
	"context"

	"github.com/sakif/nutrition-tracker/internal/model"
)

// FoodRepository stores canonical food records.
type FoodRepository interface {
	// Get returns apperror.ErrNotFound when the id is unknown.
	Get(ctx context.Context, id model.FoodID) (*model.FoodRecord, error)
	// Put inserts or fully replaces the record with the same id.
	Put(ctx context.Context, food *model.FoodRecord) error
	// Search matches a case-insensitive substring of the name, ordered by id,
	// returning at most limit records.
	Search(ctx context.Context, text string, limit int) ([]model.FoodRecord, error)
}

// EntryRepository stores serving entries.
type EntryRepository interface {
	// Create assigns entry.ID and entry.CreatedAt. IDs are never reused.
	Create(ctx context.Context, entry *model.ServingEntry) error
	// Get returns apperror.ErrNotFound when the id is unknown.
	Get(ctx context.Context, id int64) (*model.ServingEntry, error)
	// ListByDate returns the owner's entries for date, ordered by id.
	ListByDate(ctx context.Context, owner, date string) ([]model.ServingEntry, error)
	// Delete returns apperror.ErrNotFound when the id is unknown.
	Delete(ctx context.Context, id int64) error
}

// SummaryRepository keeps the last computed summary per owner and date.
// Nothing reads it back as a source of truth; it exists for inspection.
type SummaryRepository interface {
	Save(ctx context.Context, summary model.DailySummary) error
	Last(ctx context.Context, owner, date string) (*model.DailySummary, bool)
}
