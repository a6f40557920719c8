package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/owner"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// EntryHandler records, lists and deletes food entries for the request owner.
type EntryHandler struct {
	ledger *service.LedgerService
	logger *slog.Logger
}

func NewEntryHandler(ledger *service.LedgerService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{ledger: ledger, logger: logger}
}

// CreateEntryRequest is the POST body. The web client sends meal_type, so it
// is accepted as an alias of meal_slot.
type CreateEntryRequest struct {
	FoodID        string  `json:"food_id"`
	QuantityGrams float64 `json:"quantity_grams"`
	MealSlot      string  `json:"meal_slot"`
	MealType      string  `json:"meal_type"`
	Date          string  `json:"date"`
}

// EntriesResponse is the list body.
type EntriesResponse struct {
	Entries []model.EntryView `json:"entries"`
}

// HandleCreate records a serving.
//
// HTTP: POST /api/food-entries
// BODY: {"food_id": "local:1", "quantity_grams": 150, "meal_slot": "breakfast", "date": "2024-03-10"}
// 201 with the entry, its food name and its nutrient contribution.
func (h *EntryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	slot := req.MealSlot
	if slot == "" {
		slot = req.MealType
	}

	view, err := h.ledger.Create(r.Context(), service.CreateEntryInput{
		FoodID:        req.FoodID,
		QuantityGrams: req.QuantityGrams,
		MealSlot:      slot,
		Date:          req.Date,
		Owner:         owner.FromContext(r.Context()),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, view)
}

// HandleList returns the owner's entries for one day.
//
// HTTP: GET /api/food-entries?date=2024-03-10
func (h *EntryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.ledger.ListByDate(r.Context(), r.URL.Query().Get("date"), owner.FromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, EntriesResponse{Entries: views})
}

// HandleDelete removes one of the owner's entries.
//
// HTTP: DELETE /api/food-entries/{id}
func (h *EntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Delete(r.Context(), r.PathValue("id"), owner.FromContext(r.Context())); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "food entry deleted"})
}
