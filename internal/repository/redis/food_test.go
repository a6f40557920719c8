package redis

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
)

func TestFoodsKey(t *testing.T) {
	assert.Equal(t, "nutrition:foods", foodsKey(""))
	assert.Equal(t, "app:foods", foodsKey("app"))
	assert.Equal(t, "app:foods", foodsKey(" app: "))
}

func TestMatchFoods(t *testing.T) {
	encode := func(f model.FoodRecord) string {
		raw, err := json.Marshal(f)
		require.NoError(t, err)
		return string(raw)
	}

	values := map[string]string{
		"local:1":   encode(model.FoodRecord{ID: model.LocalID(1), Name: "Apple"}),
		"fdc:9":     encode(model.FoodRecord{ID: model.FDCID(9), Name: "Apple juice"}),
		"fdc:2":     encode(model.FoodRecord{ID: model.FDCID(2), Name: "Pineapple"}),
		"local:2":   encode(model.FoodRecord{ID: model.LocalID(2), Name: "Banana"}),
		"fdc:broke": "{not json",
	}

	got := matchFoods(values, "APPLE", 10)
	require.Len(t, got, 3)
	assert.Equal(t, model.FDCID(2), got[0].ID)
	assert.Equal(t, model.FDCID(9), got[1].ID)
	assert.Equal(t, model.LocalID(1), got[2].ID)

	assert.Len(t, matchFoods(values, "apple", 1), 1)
}

// TestFoodStore_Integration runs against a real server when REDIS_ADDR is set.
func TestFoodStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis integration test")
	}

	// A unique prefix keeps parallel runs from seeing each other's data.
	prefix := "nutrition-test-" + xid.New().String()
	store, err := New(Config{Addr: addr, KeyPrefix: prefix})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.rdb.Del(context.Background(), store.key).Err()
		_ = store.Close()
	})

	ctx := context.Background()
	for _, f := range model.SeedFoods() {
		require.NoError(t, store.Put(ctx, &f))
	}

	got, err := store.Get(ctx, model.LocalID(2))
	require.NoError(t, err)
	assert.Equal(t, "Banana", got.Name)

	_, err = store.Get(ctx, model.FDCID(2))
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	found, err := store.Search(ctx, "ch", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Chicken Breast", found[0].Name)
}
