package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/nutrition-tracker/internal/owner"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// NutritionHandler serves daily totals.
type NutritionHandler struct {
	summaries *service.SummaryService
	logger    *slog.Logger
}

func NewNutritionHandler(summaries *service.SummaryService, logger *slog.Logger) *NutritionHandler {
	return &NutritionHandler{summaries: summaries, logger: logger}
}

// HandleDaily returns the owner's totals and macro percentages for one day.
//
// HTTP: GET /api/nutrition/daily?date=2024-03-10
func (h *NutritionHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaries.Daily(r.Context(), r.URL.Query().Get("date"), owner.FromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, summary)
}

// HandleHealth is the liveness probe. It never touches storage or the
// remote service.
//
// HTTP: GET /healthz
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, slog.Default(), http.StatusOK, map[string]string{"status": "ok"})
}
