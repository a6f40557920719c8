package model

import (
	"fmt"
	"strings"
	"time"
)

// MealSlot is the meal an entry was eaten at.
type MealSlot string

const (
	MealBreakfast MealSlot = "breakfast"
	MealLunch     MealSlot = "lunch"
	MealDinner    MealSlot = "dinner"
	MealSnack     MealSlot = "snack"
)

// ParseMealSlot normalises case and rejects anything outside the four slots.
func ParseMealSlot(s string) (MealSlot, error) {
	slot := MealSlot(strings.ToLower(strings.TrimSpace(s)))
	switch slot {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return slot, nil
	}
	return "", fmt.Errorf("meal slot %q must be one of breakfast, lunch, dinner, snack", s)
}

// DateLayout is the only accepted date format. After validation a date is
// treated as an opaque string key.
const DateLayout = "2006-01-02"

// ServingEntry is one recorded serving of a food.
//
// ID is assigned by the store from a counter that never goes backwards, so a
// deleted entry's ID is never handed out again.
type ServingEntry struct {
	ID            int64     `json:"id"`
	FoodID        FoodID    `json:"food_id"`
	QuantityGrams float64   `json:"quantity_grams"`
	MealSlot      MealSlot  `json:"meal_slot"`
	Date          string    `json:"date"`
	Owner         string    `json:"owner"`
	CreatedAt     time.Time `json:"created_at"`
}
