package model

// DailySummary is the per-owner, per-date nutrition total.
// It is derived data: every request recomputes it from the ledger.
type DailySummary struct {
	Date              string  `json:"date"`
	Owner             string  `json:"owner"`
	TotalCalories     float64 `json:"total_calories"`
	TotalProtein      float64 `json:"total_protein"`
	TotalCarbs        float64 `json:"total_carbs"`
	TotalFat          float64 `json:"total_fat"`
	TotalFiber        float64 `json:"total_fiber"`
	ProteinPercentage float64 `json:"protein_percentage"`
	CarbsPercentage   float64 `json:"carbs_percentage"`
	FatPercentage     float64 `json:"fat_percentage"`
	EntryCount        int     `json:"entry_count"`
}

// EntryView is an entry joined with its food name and nutrient contribution.
// The embedded Nutrients hold the serving's contribution and are flattened into
// the JSON object (calories, protein, ...), which is the shape the client reads.
// FoodMissing is set when the referenced food can no longer be resolved; the
// contribution is then zero and the entry does not count towards summaries.
type EntryView struct {
	ServingEntry
	Nutrients
	FoodName    string `json:"food_name"`
	FoodMissing bool   `json:"food_missing,omitempty"`
}
