// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data. They play the role of classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Origin says where a food record came from.
//
// WHY TAG IDS WITH AN ORIGIN?
// Seed foods are numbered 1..N locally, and FoodData Central numbers its foods
// too. If both shared one integer space, fdc food 3 and local food 3 would
// overwrite each other in the catalog. Carrying the origin inside the ID keeps
// the two numbering schemes apart.
type Origin string

const (
	OriginLocal Origin = "local"
	OriginFDC   Origin = "fdc"
)

// FoodID identifies a food across both origins. Its text form is "origin:ref",
// e.g. "local:1" or "fdc:171688".
type FoodID struct {
	Origin Origin
	Ref    int64
}

// LocalID and FDCID are shorthands used by seeds, tests and the FDC adapter.
func LocalID(ref int64) FoodID { return FoodID{Origin: OriginLocal, Ref: ref} }
func FDCID(ref int64) FoodID   { return FoodID{Origin: OriginFDC, Ref: ref} }

func (id FoodID) String() string {
	return fmt.Sprintf("%s:%d", id.Origin, id.Ref)
}

// IsZero reports whether the ID was never set.
func (id FoodID) IsZero() bool {
	return id.Origin == "" && id.Ref == 0
}

// Less orders IDs by origin, then ref. Stores use it for stable listings.
func (id FoodID) Less(other FoodID) bool {
	if id.Origin != other.Origin {
		return id.Origin < other.Origin
	}
	return id.Ref < other.Ref
}

// ParseFoodID parses the "origin:ref" form. A bare number is rejected on purpose:
// without an origin it is impossible to tell which catalog it refers to.
func ParseFoodID(s string) (FoodID, error) {
	origin, ref, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return FoodID{}, fmt.Errorf("food id %q must look like local:<n> or fdc:<n>", s)
	}

	o := Origin(strings.ToLower(origin))
	if o != OriginLocal && o != OriginFDC {
		return FoodID{}, fmt.Errorf("food id %q has unknown origin %q", s, origin)
	}

	n, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || n <= 0 {
		return FoodID{}, fmt.Errorf("food id %q must end in a positive integer", s)
	}

	return FoodID{Origin: o, Ref: n}, nil
}

// MarshalText makes FoodID encode as "origin:ref" in JSON and as map keys.
func (id FoodID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *FoodID) UnmarshalText(b []byte) error {
	parsed, err := ParseFoodID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Nutrients is a set of nutrient amounts. Depending on context it is either
// "per 100 g" (on a FoodRecord) or "for this serving" (on an entry).
//
// Units: Calories in kcal, everything else in grams. Sodium is grams too,
// even though FoodData Central reports it in milligrams.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// FoodRecord is the canonical nutrient profile of a food.
// The JSON field names match what the web client already expects.
type FoodRecord struct {
	ID              FoodID  `json:"id"`
	Name            string  `json:"name"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	ProteinPer100g  float64 `json:"protein_per_100g"`
	CarbsPer100g    float64 `json:"carbs_per_100g"`
	FatPer100g      float64 `json:"fat_per_100g"`
	FiberPer100g    float64 `json:"fiber_per_100g"`
	SugarPer100g    float64 `json:"sugar_per_100g"`
	SodiumPer100g   float64 `json:"sodium_per_100g"`
}

// Per100g returns the record's nutrient values as a Nutrients value.
func (f FoodRecord) Per100g() Nutrients {
	return Nutrients{
		Calories: f.CaloriesPer100g,
		Protein:  f.ProteinPer100g,
		Carbs:    f.CarbsPer100g,
		Fat:      f.FatPer100g,
		Fiber:    f.FiberPer100g,
		Sugar:    f.SugarPer100g,
		Sodium:   f.SodiumPer100g,
	}
}

// Validate checks the record invariants: an ID, a name, and no negative nutrients.
func (f FoodRecord) Validate() error {
	if f.ID.IsZero() {
		return fmt.Errorf("food record has no id")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("food %s has no name", f.ID)
	}

	values := []struct {
		name string
		v    float64
	}{
		{"calories", f.CaloriesPer100g},
		{"protein", f.ProteinPer100g},
		{"carbs", f.CarbsPer100g},
		{"fat", f.FatPer100g},
		{"fiber", f.FiberPer100g},
		{"sugar", f.SugarPer100g},
		{"sodium", f.SodiumPer100g},
	}
	for _, n := range values {
		// NaN fails every comparison, so check it explicitly.
		if n.v < 0 || n.v != n.v {
			return fmt.Errorf("food %s has invalid %s value %v", f.ID, n.name, n.v)
		}
	}
	return nil
}

// SeedFoods is the fixed set of local foods loaded at startup.
func SeedFoods() []FoodRecord {
	return []FoodRecord{
		{ID: LocalID(1), Name: "Apple", CaloriesPer100g: 52, ProteinPer100g: 0.3, CarbsPer100g: 14, FatPer100g: 0.2, FiberPer100g: 2.4, SugarPer100g: 10.4, SodiumPer100g: 0.001},
		{ID: LocalID(2), Name: "Banana", CaloriesPer100g: 89, ProteinPer100g: 1.1, CarbsPer100g: 23, FatPer100g: 0.3, FiberPer100g: 2.6, SugarPer100g: 12.2, SodiumPer100g: 0.001},
		{ID: LocalID(3), Name: "Chicken Breast", CaloriesPer100g: 165, ProteinPer100g: 31, CarbsPer100g: 0, FatPer100g: 3.6, FiberPer100g: 0, SugarPer100g: 0, SodiumPer100g: 0.074},
		{ID: LocalID(4), Name: "Brown Rice", CaloriesPer100g: 111, ProteinPer100g: 2.6, CarbsPer100g: 23, FatPer100g: 0.9, FiberPer100g: 1.8, SugarPer100g: 0.4, SodiumPer100g: 0.005},
		{ID: LocalID(5), Name: "Broccoli", CaloriesPer100g: 34, ProteinPer100g: 2.8, CarbsPer100g: 7, FatPer100g: 0.4, FiberPer100g: 2.6, SugarPer100g: 1.5, SodiumPer100g: 0.033},
	}
}
