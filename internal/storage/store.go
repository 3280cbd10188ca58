package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store loads and saves each persisted collection independently.
// Loading an absent key yields the zero value, never an error.
type Store interface {
	LoadTasks(ctx context.Context) ([]Task, error)
	SaveTasks(ctx context.Context, tasks []Task) error
	LoadPlants(ctx context.Context) ([]Plant, error)
	SavePlants(ctx context.Context, plants []Plant) error
	LoadStats(ctx context.Context) (Stats, error)
	SaveStats(ctx context.Context, stats Stats) error
	LoadUnlocked(ctx context.Context) ([]string, error)
	SaveUnlocked(ctx context.Context, ids []string) error
}

// BatchStore is implemented by stores that can write every key in one step.
type BatchStore interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
}

// kv is the raw key/value capability shared by the concrete stores.
type kv interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	put(ctx context.Context, key string, value []byte) error
}

// records adapts a kv to the typed Store methods.
type records struct {
	kv kv
}

func (r records) LoadTasks(ctx context.Context) ([]Task, error) {
	out := []Task{}
	if err := loadJSON(ctx, r.kv, KeyTasks, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r records) SaveTasks(ctx context.Context, tasks []Task) error {
	return saveJSON(ctx, r.kv, KeyTasks, nonNil(tasks))
}

func (r records) LoadPlants(ctx context.Context) ([]Plant, error) {
	out := []Plant{}
	if err := loadJSON(ctx, r.kv, KeyPlants, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r records) SavePlants(ctx context.Context, plants []Plant) error {
	return saveJSON(ctx, r.kv, KeyPlants, nonNil(plants))
}

func (r records) LoadStats(ctx context.Context) (Stats, error) {
	var out Stats
	if err := loadJSON(ctx, r.kv, KeyStats, &out); err != nil {
		return Stats{}, err
	}
	return out, nil
}

func (r records) SaveStats(ctx context.Context, stats Stats) error {
	return saveJSON(ctx, r.kv, KeyStats, stats)
}

func (r records) LoadUnlocked(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := loadJSON(ctx, r.kv, KeyAchievements, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r records) SaveUnlocked(ctx context.Context, ids []string) error {
	return saveJSON(ctx, r.kv, KeyAchievements, nonNil(ids))
}

func loadJSON(ctx context.Context, src kv, key string, dst any) error {
	raw, ok, err := src.get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func saveJSON(ctx context.Context, dst kv, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := dst.put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// encodeSnapshot renders every key of s, in AllKeys order.
func encodeSnapshot(s Snapshot) (map[string][]byte, error) {
	values := map[string]any{
		KeyTasks:        nonNil(s.Tasks),
		KeyPlants:       nonNil(s.Plants),
		KeyStats:        s.Stats,
		KeyAchievements: nonNil(s.Unlocked),
	}
	out := make(map[string][]byte, len(values))
	for _, key := range AllKeys {
		raw, err := json.Marshal(values[key])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
