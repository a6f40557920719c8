package service

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/fooddata"
	"github.com/sakif/nutrition-tracker/internal/model"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// Hand-written fakes for the repository interfaces. Each one stores data in a
// map and can be told to fail, which is hard to arrange with a real store.

type mockFoodRepo struct {
	mu     sync.Mutex
	foods  map[model.FoodID]model.FoodRecord
	getErr error // returned by Get for every id when set
	puts   int
}

func newMockFoodRepo(seed ...model.FoodRecord) *mockFoodRepo {
	m := &mockFoodRepo{foods: make(map[model.FoodID]model.FoodRecord)}
	for _, f := range seed {
		m.foods[f.ID] = f
	}
	return m
}

func (m *mockFoodRepo) Get(_ context.Context, id model.FoodID) (*model.FoodRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	f, ok := m.foods[id]
	if !ok {
		return nil, apperror.NotFound("food", id.String())
	}
	return &f, nil
}

func (m *mockFoodRepo) Put(_ context.Context, food *model.FoodRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.foods[food.ID] = *food
	return nil
}

func (m *mockFoodRepo) Search(_ context.Context, text string, limit int) ([]model.FoodRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		return []model.FoodRecord{}, nil
	}
	var out []model.FoodRecord
	for _, f := range m.foods {
		if strings.Contains(strings.ToLower(f.Name), strings.ToLower(text)) {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b model.FoodRecord) int {
		if a.ID.Less(b.ID) {
			return -1
		}
		if b.ID.Less(a.ID) {
			return 1
		}
		return 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockFoodRepo) forget(id model.FoodID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.foods, id)
}

type mockEntryRepo struct {
	entries map[int64]model.ServingEntry
	nextID  int64
}

func newMockEntryRepo() *mockEntryRepo {
	return &mockEntryRepo{entries: make(map[int64]model.ServingEntry)}
}

func (m *mockEntryRepo) Create(_ context.Context, entry *model.ServingEntry) error {
	m.nextID++
	entry.ID = m.nextID
	m.entries[entry.ID] = *entry
	return nil
}

func (m *mockEntryRepo) Get(_ context.Context, id int64) (*model.ServingEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, apperror.NotFound("food entry", strconv.FormatInt(id, 10))
	}
	return &e, nil
}

func (m *mockEntryRepo) ListByDate(_ context.Context, owner, date string) ([]model.ServingEntry, error) {
	out := []model.ServingEntry{}
	for _, e := range m.entries {
		if e.Owner == owner && e.Date == date {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b model.ServingEntry) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *mockEntryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.entries[id]; !ok {
		return apperror.NotFound("food entry", strconv.FormatInt(id, 10))
	}
	delete(m.entries, id)
	return nil
}

type mockSummaryRepo struct {
	saved map[string]model.DailySummary
}

func newMockSummaryRepo() *mockSummaryRepo {
	return &mockSummaryRepo{saved: make(map[string]model.DailySummary)}
}

func (m *mockSummaryRepo) Save(_ context.Context, s model.DailySummary) error {
	m.saved[s.Owner+"|"+s.Date] = s
	return nil
}

func (m *mockSummaryRepo) Last(_ context.Context, owner, date string) (*model.DailySummary, bool) {
	s, ok := m.saved[owner+"|"+date]
	if !ok {
		return nil, false
	}
	return &s, true
}

// =========================================================================
// STUB LOOKUP
// =========================================================================

// stubLookup stands in for the FoodData Central client.
type stubLookup struct {
	mu sync.Mutex

	searchResult *fooddata.SearchResult
	searchErr    error
	searchCalls  int
	lastPageSize int

	foods    map[int64]model.FoodRecord
	getErr   error
	getCalls int
}

func (s *stubLookup) SearchFoods(_ context.Context, _ string, pageSize int) (*fooddata.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	s.lastPageSize = pageSize
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if s.searchResult == nil {
		return &fooddata.SearchResult{}, nil
	}
	return s.searchResult, nil
}

func (s *stubLookup) GetFood(_ context.Context, fdcID int64) (*model.FoodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	f, ok := s.foods[fdcID]
	if !ok {
		return nil, apperror.NotFound("fdc food", strconv.FormatInt(fdcID, 10))
	}
	return &f, nil
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func apple() model.FoodRecord {
	return model.SeedFoods()[0]
}
