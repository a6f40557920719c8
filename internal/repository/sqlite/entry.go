package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.EntryRepository = (*EntryStore)(nil)

// EntryStore is the serving_entries table.
type EntryStore struct {
	db *DB
}

// Entries returns the entry repository backed by this database.
func (db *DB) Entries() *EntryStore {
	return &EntryStore{db: db}
}

const entryCols = `id, food_origin, food_ref, quantity_grams, meal_slot, date, owner, created_at`

func scanEntry(scanner interface{ Scan(...any) error }) (*model.ServingEntry, error) {
	var e model.ServingEntry
	var origin, slot string
	err := scanner.Scan(
		&e.ID, &origin, &e.FoodID.Ref, &e.QuantityGrams,
		&slot, &e.Date, &e.Owner, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.FoodID.Origin = model.Origin(origin)
	e.MealSlot = model.MealSlot(slot)
	return &e, nil
}

// Create inserts the entry and fills in the generated ID.
//
// The ID comes from SQLite's AUTOINCREMENT sequence rather than COUNT(*)+1,
// so deleting rows never causes an ID to be handed out twice.
func (s *EntryStore) Create(ctx context.Context, entry *model.ServingEntry) error {
	entry.CreatedAt = time.Now().UTC()

	result, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO serving_entries (food_origin, food_ref, quantity_grams, meal_slot, date, owner, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(entry.FoodID.Origin),
		entry.FoodID.Ref,
		entry.QuantityGrams,
		string(entry.MealSlot),
		entry.Date,
		entry.Owner,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading entry id: %w", err)
	}
	entry.ID = id
	return nil
}

func (s *EntryStore) Get(ctx context.Context, id int64) (*model.ServingEntry, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+entryCols+` FROM serving_entries WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("food entry", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting entry %d: %w", id, err)
	}
	return entry, nil
}

func (s *EntryStore) ListByDate(ctx context.Context, owner, date string) ([]model.ServingEntry, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+entryCols+`
		 FROM serving_entries
		 WHERE owner = ? AND date = ?
		 ORDER BY id`,
		owner, date,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.ServingEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning entry row: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating entries: %w", err)
	}

	return entries, nil
}

// Delete checks RowsAffected to detect a missing id.
func (s *EntryStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM serving_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting entry %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("food entry", strconv.FormatInt(id, 10))
	}

	return nil
}
