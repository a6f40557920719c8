// Package nutrition holds the arithmetic behind entry contributions and daily
// summaries. Everything here is a pure function of its inputs, with no storage and
// no logging, so it can be tested exhaustively without any setup.
package nutrition

import "github.com/sakif/nutrition-tracker/internal/model"

// Atwater factors: energy per gram of each macronutrient, in kcal.
const (
	ProteinKcalPerGram = 4
	CarbsKcalPerGram   = 4
	FatKcalPerGram     = 9
)

// Scale turns per-100g values into the amounts contained in `grams` of food.
// A quantity of 100 returns the per-100g values exactly; 0 returns all zeros.
func Scale(per100g model.Nutrients, grams float64) model.Nutrients {
	f := grams / 100
	return model.Nutrients{
		Calories: per100g.Calories * f,
		Protein:  per100g.Protein * f,
		Carbs:    per100g.Carbs * f,
		Fat:      per100g.Fat * f,
		Fiber:    per100g.Fiber * f,
		Sugar:    per100g.Sugar * f,
		Sodium:   per100g.Sodium * f,
	}
}

// Add returns the field-wise sum of a and b.
func Add(a, b model.Nutrients) model.Nutrients {
	return model.Nutrients{
		Calories: a.Calories + b.Calories,
		Protein:  a.Protein + b.Protein,
		Carbs:    a.Carbs + b.Carbs,
		Fat:      a.Fat + b.Fat,
		Fiber:    a.Fiber + b.Fiber,
		Sugar:    a.Sugar + b.Sugar,
		Sodium:   a.Sodium + b.Sodium,
	}
}

// Sum adds up a list of contributions.
func Sum(parts []model.Nutrients) model.Nutrients {
	var total model.Nutrients
	for _, p := range parts {
		total = Add(total, p)
	}
	return total
}

// Percentages is the share of total calories supplied by each macronutrient.
type Percentages struct {
	Protein float64
	Carbs   float64
	Fat     float64
}

// Breakdown computes macronutrient energy shares against totals.Calories.
// When total calories are zero (or negative, which should not happen) every
// share is zero instead of NaN.
func Breakdown(totals model.Nutrients) Percentages {
	if totals.Calories <= 0 {
		return Percentages{}
	}
	return Percentages{
		Protein: totals.Protein * ProteinKcalPerGram / totals.Calories * 100,
		Carbs:   totals.Carbs * CarbsKcalPerGram / totals.Calories * 100,
		Fat:     totals.Fat * FatKcalPerGram / totals.Calories * 100,
	}
}

// Summarize builds the DailySummary for one owner and date from the given
// contributions. Callers pass only contributions of resolvable foods.
func Summarize(date, owner string, contributions []model.Nutrients) model.DailySummary {
	totals := Sum(contributions)
	pct := Breakdown(totals)

	return model.DailySummary{
		Date:              date,
		Owner:             owner,
		TotalCalories:     totals.Calories,
		TotalProtein:      totals.Protein,
		TotalCarbs:        totals.Carbs,
		TotalFat:          totals.Fat,
		TotalFiber:        totals.Fiber,
		ProteinPercentage: pct.Protein,
		CarbsPercentage:   pct.Carbs,
		FatPercentage:     pct.Fat,
		EntryCount:        len(contributions),
	}
}
