package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" gives every test a fresh, migrated database that disappears when
// the connection closes. t.Cleanup closes it even if the test fails early.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedFoods(t *testing.T, s *FoodStore) {
	t.Helper()
	for _, f := range model.SeedFoods() {
		if err := s.Put(context.Background(), &f); err != nil {
			t.Fatalf("seeding %s: %v", f.Name, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := newTestDB(t)

	// A second goose run against the same database must be a no-op.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}

func TestFoodPutAndGet(t *testing.T) {
	foods := newTestDB(t).Foods()
	seedFoods(t, foods)

	got, err := foods.Get(context.Background(), model.LocalID(3))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Chicken Breast" {
		t.Errorf("Name = %q, want %q", got.Name, "Chicken Breast")
	}
	if got.ProteinPer100g != 31 {
		t.Errorf("ProteinPer100g = %v, want 31", got.ProteinPer100g)
	}
	if got.SodiumPer100g != 0.074 {
		t.Errorf("SodiumPer100g = %v, want 0.074", got.SodiumPer100g)
	}
}

func TestFoodGet_NotFound(t *testing.T) {
	foods := newTestDB(t).Foods()
	seedFoods(t, foods)

	// Same number, different origin.
	_, err := foods.Get(context.Background(), model.FDCID(3))
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestFoodPut_Overwrites(t *testing.T) {
	foods := newTestDB(t).Foods()
	ctx := context.Background()

	first := model.FoodRecord{ID: model.FDCID(171688), Name: "Apples, raw", CaloriesPer100g: 52}
	if err := foods.Put(ctx, &first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	second := model.FoodRecord{ID: model.FDCID(171688), Name: "Apples, raw, with skin", CaloriesPer100g: 52, FiberPer100g: 2.4}
	if err := foods.Put(ctx, &second); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	got, err := foods.Get(ctx, model.FDCID(171688))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *got != second {
		t.Errorf("Get() = %+v, want %+v", *got, second)
	}
}

func TestFoodPut_RejectsNegative(t *testing.T) {
	foods := newTestDB(t).Foods()

	bad := model.FoodRecord{ID: model.FDCID(1), Name: "bad", CarbsPer100g: -3}
	err := foods.Put(context.Background(), &bad)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Put() error = %v, want ErrValidation", err)
	}
}

func TestFoodSearch(t *testing.T) {
	foods := newTestDB(t).Foods()
	seedFoods(t, foods)
	ctx := context.Background()

	got, err := foods.Search(ctx, "bRo", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search() returned %d foods, want 2", len(got))
	}
	if got[0].Name != "Brown Rice" || got[1].Name != "Broccoli" {
		t.Errorf("Search() order = [%s, %s], want [Brown Rice, Broccoli]", got[0].Name, got[1].Name)
	}

	limited, err := foods.Search(ctx, "", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Search() with limit 2 returned %d", len(limited))
	}
}

func TestFoodSearch_WildcardsAreLiteral(t *testing.T) {
	foods := newTestDB(t).Foods()
	seedFoods(t, foods)

	got, err := foods.Search(context.Background(), "%", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search(%q) returned %d foods, want 0", "%", len(got))
	}
}
