// Package handler turns HTTP requests into service calls.
//
// Handlers only parse input and shape output. Every rule (limits, validation,
// where a food comes from) lives in the service layer, and every error goes
// through writeError so the JSON error shape is the same everywhere.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// FoodHandler serves food search and lookup.
type FoodHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewFoodHandler(catalog *service.CatalogService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{catalog: catalog, logger: logger}
}

// SearchResponse wraps search results in an object so fields can be added
// later without breaking clients.
type SearchResponse struct {
	Foods []model.FoodRecord `json:"foods"`
}

// HandleSearch finds foods by name.
//
// HTTP: GET /api/foods/search?q=apple&limit=10
//
// limit is optional; the service applies the default and the upper bound.
func (h *FoodHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, h.logger, apperror.ValidationFailed("limit", "limit must be an integer"))
			return
		}
		limit = n
	}

	foods, err := h.catalog.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if foods == nil {
		foods = []model.FoodRecord{}
	}

	writeJSON(w, h.logger, http.StatusOK, SearchResponse{Foods: foods})
}

// HandleGet returns one food, fetching it from FoodData Central if it is an
// fdc id we have not seen yet.
//
// HTTP: GET /api/foods/{id}   e.g. /api/foods/local:1, /api/foods/fdc:171688
func (h *FoodHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseFoodID(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("id", err.Error()))
		return
	}

	food, err := h.catalog.GetOrFetch(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, food)
}
