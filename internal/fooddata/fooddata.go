// Package fooddata talks to the USDA FoodData Central (FDC) API and maps its
// food records into model.FoodRecord.
//
// The rest of the application only sees the Lookup interface, so tests (and
// any future provider) can stand in for the real HTTP client.
package fooddata

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sakif/nutrition-tracker/internal/model"
)

// Lookup is the narrow surface the catalog needs from a remote food database.
//
// Errors are *apperror.AppError values: ErrUpstream for transport, status or
// decoding failures, ErrNotFound when the service says the food does not exist.
type Lookup interface {
	SearchFoods(ctx context.Context, query string, pageSize int) (*SearchResult, error)
	GetFood(ctx context.Context, fdcID int64) (*model.FoodRecord, error)
}

// SearchResult holds the records that converted cleanly, plus one error per
// record that did not. A bad record never fails the whole search.
type SearchResult struct {
	Foods    []model.FoodRecord
	Rejected []error
}

// Config holds the FDC client configuration.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string
	// APIKey is sent as the api_key query parameter. FDC accepts "DEMO_KEY"
	// with a low rate limit.
	APIKey string
	// Timeout bounds every request, including reading the body.
	Timeout time.Duration
	// DataTypes restricts search results to these FDC data sets.
	DataTypes []string
}

// DefaultConfig returns the public FDC endpoint with the demo key.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://api.nal.usda.gov/fdc/v1",
		APIKey:    "DEMO_KEY",
		Timeout:   10 * time.Second,
		DataTypes: []string{"Foundation", "SR Legacy"},
	}
}

// FDC nutrient names, as they appear in both search and detail responses.
const (
	nutrientEnergy   = "Energy"
	nutrientAtwaterG = "Energy (Atwater General Factors)"
	nutrientAtwaterS = "Energy (Atwater Specific Factors)"
	nutrientProtein  = "Protein"
	nutrientCarbs    = "Carbohydrate, by difference"
	nutrientFat      = "Total lipid (fat)"
	nutrientFiber    = "Fiber, total dietary"
	nutrientSugar    = "Sugars, total including NLEA"
	nutrientSugar2   = "Total Sugars"
	nutrientSodium   = "Sodium, Na"
)

// energyNames lists the kcal nutrients in order of preference. Foundation
// foods often report only the Atwater variants.
var energyNames = []string{nutrientEnergy, nutrientAtwaterG, nutrientAtwaterS}

// Food is one FDC food as returned by /foods/search or /food/{id}.
type Food struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	FoodNutrients []FoodNutrient `json:"foodNutrients"`
}

// FoodNutrient covers both response shapes:
//
//	search: {"nutrientName": "Protein", "unitName": "G", "value": 0.26}
//	detail: {"nutrient": {"name": "Protein", "unitName": "g"}, "amount": 0.26}
type FoodNutrient struct {
	NutrientName string   `json:"nutrientName"`
	UnitName     string   `json:"unitName"`
	Value        *float64 `json:"value"`

	Nutrient *struct {
		Name     string `json:"name"`
		UnitName string `json:"unitName"`
	} `json:"nutrient"`
	Amount *float64 `json:"amount"`
}

func (n FoodNutrient) name() string {
	if n.NutrientName != "" {
		return n.NutrientName
	}
	if n.Nutrient != nil {
		return n.Nutrient.Name
	}
	return ""
}

func (n FoodNutrient) unit() string {
	if n.UnitName != "" {
		return n.UnitName
	}
	if n.Nutrient != nil {
		return n.Nutrient.UnitName
	}
	return ""
}

func (n FoodNutrient) value() (float64, bool) {
	switch {
	case n.Value != nil:
		return *n.Value, true
	case n.Amount != nil:
		return *n.Amount, true
	}
	return 0, false
}

// ToRecord converts an FDC food into the canonical record.
//
// Missing nutrients count as zero. Energy reported in kJ is ignored in favour
// of the kcal entry, and plain "Energy" wins over the Atwater factors. Sodium
// arrives in milligrams and is stored in grams.
func ToRecord(f Food) (model.FoodRecord, error) {
	if f.FdcID <= 0 {
		return model.FoodRecord{}, fmt.Errorf("fdc food has invalid id %d", f.FdcID)
	}
	name := strings.TrimSpace(f.Description)
	if name == "" {
		return model.FoodRecord{}, fmt.Errorf("fdc food %d has no description", f.FdcID)
	}

	values := make(map[string]float64, len(f.FoodNutrients))
	for _, n := range f.FoodNutrients {
		v, ok := n.value()
		if !ok {
			continue
		}
		key := n.name()
		if slices.Contains(energyNames, key) && !strings.EqualFold(n.unit(), "kcal") && n.unit() != "" {
			continue
		}
		// First occurrence wins; FDC lists the primary value first.
		if _, seen := values[key]; !seen {
			values[key] = v
		}
	}

	var calories float64
	for _, key := range energyNames {
		if v, ok := values[key]; ok {
			calories = v
			break
		}
	}

	sugar, ok := values[nutrientSugar]
	if !ok {
		sugar = values[nutrientSugar2]
	}

	rec := model.FoodRecord{
		ID:              model.FDCID(f.FdcID),
		Name:            name,
		CaloriesPer100g: calories,
		ProteinPer100g:  values[nutrientProtein],
		CarbsPer100g:    values[nutrientCarbs],
		FatPer100g:      values[nutrientFat],
		FiberPer100g:    values[nutrientFiber],
		SugarPer100g:    sugar,
		SodiumPer100g:   values[nutrientSodium] / 1000,
	}
	if err := rec.Validate(); err != nil {
		return model.FoodRecord{}, err
	}
	return rec, nil
}
