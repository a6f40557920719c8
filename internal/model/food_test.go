package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFoodID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FoodID
		wantErr bool
	}{
		{name: "local", in: "local:3", want: LocalID(3)},
		{name: "fdc", in: "fdc:171688", want: FDCID(171688)},
		{name: "origin is case-insensitive", in: "FDC:7", want: FDCID(7)},
		{name: "surrounding spaces", in: "  local:1 ", want: LocalID(1)},
		{name: "bare number is ambiguous", in: "3", wantErr: true},
		{name: "unknown origin", in: "usda:3", wantErr: true},
		{name: "non-numeric ref", in: "local:abc", wantErr: true},
		{name: "zero ref", in: "local:0", wantErr: true},
		{name: "negative ref", in: "fdc:-4", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFoodID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFoodID_JSONUsesTextForm(t *testing.T) {
	rec := FoodRecord{ID: FDCID(42), Name: "Kale"}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"fdc:42"`)

	var back FoodRecord
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, FDCID(42), back.ID)
}

func TestFoodID_Less(t *testing.T) {
	assert.True(t, FDCID(999).Less(LocalID(1)), "fdc sorts before local")
	assert.True(t, LocalID(1).Less(LocalID(2)))
	assert.False(t, LocalID(2).Less(LocalID(2)))
}

func TestFoodRecord_Validate(t *testing.T) {
	good := SeedFoods()[0]
	assert.NoError(t, good.Validate())

	negative := good
	negative.FatPer100g = -0.1
	assert.Error(t, negative.Validate())

	nan := good
	nan.SodiumPer100g = math.NaN()
	assert.Error(t, nan.Validate())

	unnamed := good
	unnamed.Name = "  "
	assert.Error(t, unnamed.Validate())

	assert.Error(t, FoodRecord{Name: "no id"}.Validate())
}

func TestSeedFoods_AreValidAndLocal(t *testing.T) {
	seen := map[FoodID]bool{}
	for _, f := range SeedFoods() {
		require.NoError(t, f.Validate())
		assert.Equal(t, OriginLocal, f.ID.Origin)
		assert.False(t, seen[f.ID], "duplicate seed id %s", f.ID)
		seen[f.ID] = true
	}
	assert.Len(t, seen, 5)
}

func TestParseMealSlot(t *testing.T) {
	for _, in := range []string{"breakfast", "Lunch", " DINNER ", "snack"} {
		_, err := ParseMealSlot(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseMealSlot("brunch")
	assert.Error(t, err)
}
