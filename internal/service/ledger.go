package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/nutrition"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

// MaxQuantityGrams guards against typos like 15000 instead of 150.
const MaxQuantityGrams = 10000

// CreateEntryInput is what a caller supplies to record a serving.
// Fields arrive as raw strings so every caller gets the same validation.
type CreateEntryInput struct {
	FoodID        string
	QuantityGrams float64
	MealSlot      string
	Date          string
	Owner         string
}

// LedgerService records, lists and deletes serving entries.
//
// Food references are resolved against the stored catalog only. Creating an
// entry never triggers a remote lookup: a food has to be searched or fetched
// first, which is how the web client works anyway.
type LedgerService struct {
	entries repository.EntryRepository
	foods   repository.FoodRepository
	logger  *slog.Logger
}

func NewLedgerService(entries repository.EntryRepository, foods repository.FoodRepository, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		entries: entries,
		foods:   foods,
		logger:  logger,
	}
}

// Create validates the input, checks the food exists and stores the entry.
// The returned view carries the food name and the serving's contribution.
func (s *LedgerService) Create(ctx context.Context, in CreateEntryInput) (*model.EntryView, error) {
	foodID, err := model.ParseFoodID(in.FoodID)
	if err != nil {
		return nil, apperror.ValidationFailed("food_id", err.Error())
	}
	if math.IsNaN(in.QuantityGrams) || in.QuantityGrams <= 0 {
		return nil, apperror.ValidationFailed("quantity_grams", "quantity_grams must be greater than 0")
	}
	if in.QuantityGrams > MaxQuantityGrams {
		return nil, apperror.ValidationFailed("quantity_grams",
			fmt.Sprintf("quantity_grams must be %d or less", MaxQuantityGrams))
	}
	slot, err := model.ParseMealSlot(in.MealSlot)
	if err != nil {
		return nil, apperror.ValidationFailed("meal_slot", err.Error())
	}
	date, err := ValidateDate(in.Date)
	if err != nil {
		return nil, err
	}
	owner, err := ValidateOwner(in.Owner)
	if err != nil {
		return nil, err
	}

	food, err := s.foods.Get(ctx, foodID)
	if err != nil {
		return nil, err
	}

	entry := &model.ServingEntry{
		FoodID:        foodID,
		QuantityGrams: in.QuantityGrams,
		MealSlot:      slot,
		Date:          date,
		Owner:         owner,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		s.logger.Error("failed to create food entry",
			slog.String("food_id", foodID.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating food entry: %w", err)
	}

	s.logger.Info("food entry created",
		slog.Int64("id", entry.ID),
		slog.String("food_id", foodID.String()),
		slog.String("owner", owner),
		slog.String("date", date),
	)

	view := viewOf(*entry, food)
	return &view, nil
}

// ListByDate returns the owner's entries for date, ordered by id.
// Entries whose food can no longer be resolved are kept, flagged FoodMissing.
func (s *LedgerService) ListByDate(ctx context.Context, date, owner string) ([]model.EntryView, error) {
	date, err := ValidateDate(date)
	if err != nil {
		return nil, err
	}
	owner, err = ValidateOwner(owner)
	if err != nil {
		return nil, err
	}

	return resolveEntries(ctx, s.entries, s.foods, date, owner)
}

// Delete removes the entry if it belongs to owner. An entry owned by someone
// else is reported as NotFound, the same as one that never existed.
func (s *LedgerService) Delete(ctx context.Context, id, owner string) error {
	entryID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || entryID <= 0 {
		return apperror.ValidationFailed("id", "entry id must be a positive integer")
	}
	owner, err = ValidateOwner(owner)
	if err != nil {
		return err
	}

	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Owner != owner {
		return apperror.NotFound("food entry", id)
	}

	if err := s.entries.Delete(ctx, entryID); err != nil {
		return err
	}

	s.logger.Info("food entry deleted", slog.Int64("id", entryID), slog.String("owner", owner))
	return nil
}

// resolveEntries loads the owner's entries for date and joins each with its
// food. Summary computation reuses it so both views agree on what "missing"
// means.
func resolveEntries(ctx context.Context, entries repository.EntryRepository, foods repository.FoodRepository, date, owner string) ([]model.EntryView, error) {
	list, err := entries.ListByDate(ctx, owner, date)
	if err != nil {
		return nil, fmt.Errorf("listing food entries: %w", err)
	}

	// Several entries often share a food; look each one up once.
	resolved := make(map[model.FoodID]*model.FoodRecord)
	views := make([]model.EntryView, 0, len(list))
	for _, e := range list {
		food, ok := resolved[e.FoodID]
		if !ok {
			food, err = foods.Get(ctx, e.FoodID)
			if err != nil && !errors.Is(err, apperror.ErrNotFound) {
				return nil, fmt.Errorf("resolving food %s: %w", e.FoodID, err)
			}
			resolved[e.FoodID] = food
		}
		views = append(views, viewOf(e, food))
	}
	return views, nil
}

// viewOf joins an entry with its food. A nil food yields a zero contribution
// flagged as missing.
func viewOf(e model.ServingEntry, food *model.FoodRecord) model.EntryView {
	if food == nil {
		return model.EntryView{ServingEntry: e, FoodMissing: true}
	}
	return model.EntryView{
		ServingEntry: e,
		Nutrients:    nutrition.Scale(food.Per100g(), e.QuantityGrams),
		FoodName:     food.Name,
	}
}

// ValidateDate accepts only YYYY-MM-DD calendar dates.
func ValidateDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", apperror.ValidationFailed("date", "date is required")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", apperror.ValidationFailed("date", fmt.Sprintf("date %q must be in YYYY-MM-DD format", date))
	}
	return date, nil
}

// ValidateOwner rejects an empty owner. Defaulting happens at the request
// surface, never here.
func ValidateOwner(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", apperror.ValidationFailed("owner", "owner is required")
	}
	return owner, nil
}
