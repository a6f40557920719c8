// Package service contains the business logic of the nutrition tracker.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes foods, entries and summaries
//
// Services take repository interfaces, never concrete stores. main.go decides
// whether foods live in memory, SQLite or Redis; nothing in here changes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/fooddata"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

// Search limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// CatalogService is the food catalog cache: local records first, FoodData
// Central on demand, with every remote hit written back into the store.
type CatalogService struct {
	foods  repository.FoodRepository
	lookup fooddata.Lookup // nil disables remote lookups
	logger *slog.Logger

	// fetches collapses concurrent GetOrFetch calls for the same id into one
	// remote request.
	fetches singleflight.Group
}

// NewCatalogService creates a CatalogService. lookup may be nil, in which case
// the catalog only ever serves what is already stored.
func NewCatalogService(foods repository.FoodRepository, lookup fooddata.Lookup, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		foods:  foods,
		lookup: lookup,
		logger: logger,
	}
}

// Seed loads records into the store, overwriting any with the same id.
func (s *CatalogService) Seed(ctx context.Context, records []model.FoodRecord) error {
	for i := range records {
		if err := s.foods.Put(ctx, &records[i]); err != nil {
			return fmt.Errorf("seeding food %s: %w", records[i].ID, err)
		}
	}
	s.logger.Info("food catalog seeded", slog.Int("count", len(records)))
	return nil
}

// Get returns a stored record without ever calling the remote service.
func (s *CatalogService) Get(ctx context.Context, id model.FoodID) (*model.FoodRecord, error) {
	return s.foods.Get(ctx, id)
}

// Put stores a record, replacing any existing record with the same id.
func (s *CatalogService) Put(ctx context.Context, food *model.FoodRecord) error {
	if err := food.Validate(); err != nil {
		return apperror.ValidationFailed("food", err.Error())
	}
	return s.foods.Put(ctx, food)
}

// SearchLocal matches stored records only.
func (s *CatalogService) SearchLocal(ctx context.Context, text string, limit int) ([]model.FoodRecord, error) {
	return s.foods.Search(ctx, text, limit)
}

// Search returns up to limit foods whose name contains text.
//
// THE MERGE:
//  1. Take at most limit/2 matches from the store.
//  2. Ask FoodData Central for whatever is still missing.
//  3. Store every remote result, then append it (skipping ids already present).
//
// Stored matches are cheap and known-good, but capping them at half the page
// leaves room for the remote database to contribute. A failing remote service
// degrades the result to stored matches only; it never fails the search.
func (s *CatalogService) Search(ctx context.Context, text string, limit int) ([]model.FoodRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("q", "search query is required")
	}
	limit = clampSearchLimit(limit)

	results, err := s.foods.Search(ctx, text, limit/2)
	if err != nil {
		return nil, fmt.Errorf("searching local foods: %w", err)
	}

	remaining := limit - len(results)
	if remaining <= 0 || s.lookup == nil {
		return results, nil
	}

	remote, err := s.lookup.SearchFoods(ctx, text, remaining)
	if err != nil {
		s.logger.Warn("remote food search failed, returning local results",
			slog.String("query", text),
			slog.String("error", err.Error()),
		)
		return results, nil
	}
	for _, rerr := range remote.Rejected {
		s.logger.Warn("skipping malformed remote food",
			slog.String("query", text),
			slog.String("error", rerr.Error()),
		)
	}

	seen := make(map[model.FoodID]struct{}, limit)
	for _, f := range results {
		seen[f.ID] = struct{}{}
	}

	for i := range remote.Foods {
		if len(results) >= limit {
			break
		}
		food := remote.Foods[i]
		if _, dup := seen[food.ID]; dup {
			continue
		}
		if err := s.foods.Put(ctx, &food); err != nil {
			s.logger.Warn("failed to cache remote food",
				slog.String("food_id", food.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		seen[food.ID] = struct{}{}
		results = append(results, food)
	}

	return results, nil
}

// GetOrFetch returns the stored record, or fetches an FDC record remotely and
// stores it. Local ids are never looked up remotely. Any remote failure is
// reported as NotFound: from the caller's point of view the food is simply
// not available right now.
func (s *CatalogService) GetOrFetch(ctx context.Context, id model.FoodID) (*model.FoodRecord, error) {
	food, err := s.foods.Get(ctx, id)
	if err == nil {
		return food, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("getting food %s: %w", id, err)
	}
	if id.Origin != model.OriginFDC || s.lookup == nil {
		return nil, err
	}

	// The fetch is shared by every caller waiting on this id, so it must not
	// die with the first caller's request. Each caller still stops waiting
	// when its own context ends; the client timeout bounds the fetch itself.
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.fetches.DoChan(id.String(), func() (any, error) {
		fetched, err := s.lookup.GetFood(fetchCtx, id.Ref)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			return nil, apperror.NotFound("food", id.String())
		}
		if err := s.foods.Put(fetchCtx, fetched); err != nil {
			return nil, fmt.Errorf("caching food %s: %w", id, err)
		}
		return fetched, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetching food %s: %w", id, ctx.Err())
	case res = <-ch:
	}
	if err := res.Err; err != nil {
		if errors.Is(err, apperror.ErrUpstream) {
			s.logger.Warn("remote food fetch failed",
				slog.String("food_id", id.String()),
				slog.String("error", err.Error()),
			)
			return nil, apperror.NotFound("food", id.String())
		}
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("food", id.String())
		}
		return nil, err
	}

	fetched := *res.Val.(*model.FoodRecord)
	s.logger.Info("food fetched from remote",
		slog.String("food_id", id.String()),
		slog.String("name", fetched.Name),
		slog.Bool("shared", res.Shared),
	)
	// Callers get their own copy; the singleflight result is shared.
	return &fetched, nil
}

func clampSearchLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
