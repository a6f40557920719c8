// Package redis stores the food catalog in Redis so several server processes
// can share one cache of FoodData Central lookups.
//
// Layout: one hash at "<prefix>:foods", field = food id text ("fdc:171688"),
// value = the JSON-encoded FoodRecord. Every write is a single HSET, which
// Redis applies atomically.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sakif/nutrition-tracker/internal/apperror"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/repository"
)

var _ repository.FoodRepository = (*FoodStore)(nil)

// FoodStore implements repository.FoodRepository on a Redis hash.
type FoodStore struct {
	rdb *goredis.Client
	key string
}

// Config holds connection settings.
type Config struct {
	Addr      string
	KeyPrefix string
}

// New connects to Redis and verifies the connection with PING.
func New(cfg Config) (*FoodStore, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redis: missing address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return NewWithClient(rdb, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *goredis.Client, keyPrefix string) *FoodStore {
	return &FoodStore{rdb: rdb, key: foodsKey(keyPrefix)}
}

func foodsKey(prefix string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "nutrition"
	}
	return prefix + ":foods"
}

// Close releases the underlying connection pool.
func (s *FoodStore) Close() error {
	return s.rdb.Close()
}

func (s *FoodStore) Get(ctx context.Context, id model.FoodID) (*model.FoodRecord, error) {
	raw, err := s.rdb.HGet(ctx, s.key, id.String()).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, apperror.NotFound("food", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("redis: getting food %s: %w", id, err)
	}

	var food model.FoodRecord
	if err := json.Unmarshal(raw, &food); err != nil {
		return nil, fmt.Errorf("redis: decoding food %s: %w", id, err)
	}
	return &food, nil
}

func (s *FoodStore) Put(ctx context.Context, food *model.FoodRecord) error {
	if err := food.Validate(); err != nil {
		return apperror.ValidationFailed("food", err.Error())
	}

	raw, err := json.Marshal(food)
	if err != nil {
		return fmt.Errorf("redis: encoding food %s: %w", food.ID, err)
	}
	if err := s.rdb.HSet(ctx, s.key, food.ID.String(), raw).Err(); err != nil {
		return fmt.Errorf("redis: putting food %s: %w", food.ID, err)
	}
	return nil
}

// Search scans the whole hash. The catalog holds seeds plus foods users have
// actually looked up, so it stays small enough for a linear scan.
func (s *FoodStore) Search(ctx context.Context, text string, limit int) ([]model.FoodRecord, error) {
	if limit <= 0 {
		return []model.FoodRecord{}, nil
	}

	all, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: listing foods: %w", err)
	}

	return matchFoods(all, text, limit), nil
}

// matchFoods filters decoded hash values by name and orders them by id.
// Values that fail to decode are skipped.
func matchFoods(values map[string]string, text string, limit int) []model.FoodRecord {
	needle := strings.ToLower(text)

	matches := make([]model.FoodRecord, 0, limit)
	for _, raw := range values {
		var f model.FoodRecord
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(f.Name), needle) {
			matches = append(matches, f)
		}
	}

	slices.SortFunc(matches, func(a, b model.FoodRecord) int {
		switch {
		case a.ID.Less(b.ID):
			return -1
		case b.ID.Less(a.ID):
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
