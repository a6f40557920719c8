package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.FoodRepository = (*FoodStore)(nil)

// FoodStore is the foods table. It shares the connection pool of its DB.
type FoodStore struct {
	db *DB
}

// Foods returns the food repository backed by this database.
func (db *DB) Foods() *FoodStore {
	return &FoodStore{db: db}
}

const foodCols = `origin, ref, name, calories_per_100g, protein_per_100g, carbs_per_100g,
	fat_per_100g, fiber_per_100g, sugar_per_100g, sodium_per_100g`

func scanFood(scanner interface{ Scan(...any) error }) (*model.FoodRecord, error) {
	var f model.FoodRecord
	var origin string
	err := scanner.Scan(
		&origin, &f.ID.Ref, &f.Name,
		&f.CaloriesPer100g, &f.ProteinPer100g, &f.CarbsPer100g,
		&f.FatPer100g, &f.FiberPer100g, &f.SugarPer100g, &f.SodiumPer100g,
	)
	if err != nil {
		return nil, err
	}
	f.ID.Origin = model.Origin(origin)
	return &f, nil
}

func (s *FoodStore) Get(ctx context.Context, id model.FoodID) (*model.FoodRecord, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT `+foodCols+` FROM foods WHERE origin = ? AND ref = ?`,
		string(id.Origin), id.Ref,
	)

	food, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("food", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting food %s: %w", id, err)
	}
	return food, nil
}

// Put upserts on (origin, ref). A re-fetched record replaces every column.
func (s *FoodStore) Put(ctx context.Context, food *model.FoodRecord) error {
	if err := food.Validate(); err != nil {
		return apperror.ValidationFailed("food", err.Error())
	}

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO foods (`+foodCols+`, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (origin, ref) DO UPDATE SET
			name              = excluded.name,
			calories_per_100g = excluded.calories_per_100g,
			protein_per_100g  = excluded.protein_per_100g,
			carbs_per_100g    = excluded.carbs_per_100g,
			fat_per_100g      = excluded.fat_per_100g,
			fiber_per_100g    = excluded.fiber_per_100g,
			sugar_per_100g    = excluded.sugar_per_100g,
			sodium_per_100g   = excluded.sodium_per_100g,
			updated_at        = CURRENT_TIMESTAMP`,
		string(food.ID.Origin), food.ID.Ref, food.Name,
		food.CaloriesPer100g, food.ProteinPer100g, food.CarbsPer100g,
		food.FatPer100g, food.FiberPer100g, food.SugarPer100g, food.SodiumPer100g,
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting food %s: %w", food.ID, err)
	}
	return nil
}

// likeEscaper escapes LIKE wildcards so user text is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *FoodStore) Search(ctx context.Context, text string, limit int) ([]model.FoodRecord, error) {
	if limit <= 0 {
		return []model.FoodRecord{}, nil
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+foodCols+`
		 FROM foods
		 WHERE lower(name) LIKE ? ESCAPE '\'
		 ORDER BY origin, ref
		 LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching foods: %w", err)
	}
	defer rows.Close()

	foods := make([]model.FoodRecord, 0, limit)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning food row: %w", err)
		}
		foods = append(foods, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating foods: %w", err)
	}

	return foods, nil
}
