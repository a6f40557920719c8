package service

import (
	"context"
	"log/slog"

	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/nutrition"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

// SummaryService computes daily nutrition totals.
type SummaryService struct {
	entries   repository.EntryRepository
	foods     repository.FoodRepository
	summaries repository.SummaryRepository
	logger    *slog.Logger
}

func NewSummaryService(entries repository.EntryRepository, foods repository.FoodRepository, summaries repository.SummaryRepository, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		entries:   entries,
		foods:     foods,
		summaries: summaries,
		logger:    logger,
	}
}

// Daily recomputes the owner's totals for date from the ledger.
//
// Entries whose food is no longer stored are left out of the totals and of
// EntryCount. Foods are read from the store only; a summary never waits on
// the remote service.
//
// The result is also saved to the summary store. That copy is never read back
// here, so a failed save is logged and otherwise ignored.
func (s *SummaryService) Daily(ctx context.Context, date, owner string) (*model.DailySummary, error) {
	date, err := ValidateDate(date)
	if err != nil {
		return nil, err
	}
	owner, err = ValidateOwner(owner)
	if err != nil {
		return nil, err
	}

	views, err := resolveEntries(ctx, s.entries, s.foods, date, owner)
	if err != nil {
		return nil, err
	}

	contributions := make([]model.Nutrients, 0, len(views))
	skipped := 0
	for _, v := range views {
		if v.FoodMissing {
			skipped++
			continue
		}
		contributions = append(contributions, v.Nutrients)
	}

	summary := nutrition.Summarize(date, owner, contributions)

	if err := s.summaries.Save(ctx, summary); err != nil {
		s.logger.Warn("failed to save daily summary",
			slog.String("owner", owner),
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Debug("daily summary computed",
		slog.String("owner", owner),
		slog.String("date", date),
		slog.Int("entries", summary.EntryCount),
		slog.Int("skipped", skipped),
	)

	return &summary, nil
}
