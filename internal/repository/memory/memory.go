// Package memory implements the repository interfaces with process-local maps.
//
// This is the default store: nothing survives a restart. Each map has its own
// lock, and records are copied on the way in and out so callers never share
// memory with the store.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var (
	_ repository.FoodRepository    = (*FoodStore)(nil)
	_ repository.EntryRepository   = (*EntryStore)(nil)
	_ repository.SummaryRepository = (*SummaryStore)(nil)
)

// FoodStore is the in-memory food catalog.
type FoodStore struct {
	mu    sync.RWMutex
	foods map[model.FoodID]model.FoodRecord
}

func NewFoodStore() *FoodStore {
	return &FoodStore{foods: make(map[model.FoodID]model.FoodRecord)}
}

func (s *FoodStore) Get(_ context.Context, id model.FoodID) (*model.FoodRecord, error) {
	s.mu.RLock()
	food, ok := s.foods[id]
	s.mu.RUnlock()

	if !ok {
		return nil, apperror.NotFound("food", id.String())
	}
	return &food, nil
}

func (s *FoodStore) Put(_ context.Context, food *model.FoodRecord) error {
	if err := food.Validate(); err != nil {
		return apperror.ValidationFailed("food", err.Error())
	}

	s.mu.Lock()
	s.foods[food.ID] = *food
	s.mu.Unlock()
	return nil
}

func (s *FoodStore) Search(_ context.Context, text string, limit int) ([]model.FoodRecord, error) {
	if limit <= 0 {
		return []model.FoodRecord{}, nil
	}
	needle := strings.ToLower(text)

	s.mu.RLock()
	matches := make([]model.FoodRecord, 0, limit)
	for _, f := range s.foods {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			matches = append(matches, f)
		}
	}
	s.mu.RUnlock()

	// Map iteration order is random; sort so repeated searches agree.
	slices.SortFunc(matches, func(a, b model.FoodRecord) int {
		switch {
		case a.ID.Less(b.ID):
			return -1
		case b.ID.Less(a.ID):
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// EntryStore is the in-memory serving ledger.
type EntryStore struct {
	mu      sync.RWMutex
	entries map[int64]model.ServingEntry
	lastID  atomic.Int64
}

func NewEntryStore() *EntryStore {
	return &EntryStore{entries: make(map[int64]model.ServingEntry)}
}

func (s *EntryStore) Create(_ context.Context, entry *model.ServingEntry) error {
	// The counter only moves forward, so IDs stay unique after deletes.
	entry.ID = s.lastID.Add(1)
	entry.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.entries[entry.ID] = *entry
	s.mu.Unlock()
	return nil
}

func (s *EntryStore) Get(_ context.Context, id int64) (*model.ServingEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, apperror.NotFound("food entry", strconv.FormatInt(id, 10))
	}
	return &entry, nil
}

func (s *EntryStore) ListByDate(_ context.Context, owner, date string) ([]model.ServingEntry, error) {
	s.mu.RLock()
	result := make([]model.ServingEntry, 0)
	for _, e := range s.entries {
		if e.Owner == owner && e.Date == date {
			result = append(result, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(result, func(a, b model.ServingEntry) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (s *EntryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return apperror.NotFound("food entry", strconv.FormatInt(id, 10))
	}
	delete(s.entries, id)
	return nil
}

// SummaryStore remembers the last summary computed per owner and date.
type SummaryStore struct {
	mu        sync.RWMutex
	summaries map[summaryKey]model.DailySummary
}

type summaryKey struct {
	owner string
	date  string
}

func NewSummaryStore() *SummaryStore {
	return &SummaryStore{summaries: make(map[summaryKey]model.DailySummary)}
}

func (s *SummaryStore) Save(_ context.Context, summary model.DailySummary) error {
	s.mu.Lock()
	s.summaries[summaryKey{owner: summary.Owner, date: summary.Date}] = summary
	s.mu.Unlock()
	return nil
}

func (s *SummaryStore) Last(_ context.Context, owner, date string) (*model.DailySummary, bool) {
	s.mu.RLock()
	summary, ok := s.summaries[summaryKey{owner: owner, date: date}]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return &summary, true
}
