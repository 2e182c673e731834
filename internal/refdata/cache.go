package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Loader reads the raw bytes of a named dataset from static storage.
type Loader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// FileLoader reads datasets from <dir>/<name>.json.
type FileLoader struct {
	Dir string
}

func (l FileLoader) Load(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.Dir, name+".json"))
}

// Cache memoizes parsed datasets per process. Load or parse failures
// are logged and not cached, so the next Get retries storage. A race
// between two first calls may read storage twice; the datasets are
// immutable once parsed, so last write wins harmlessly.
type Cache struct {
	loader Loader

	mu     sync.RWMutex
	parsed map[string]any
}

func NewCache(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		parsed: make(map[string]any),
	}
}

// Get returns the parsed dataset for name, or nil when it cannot be
// loaded. The concrete type depends on the name (*DeviceCatalog,
// *SymptomTaxonomy, *RewardsTiers or *PricingPlans).
func (c *Cache) Get(ctx context.Context, name string) any {
	c.mu.RLock()
	v, ok := c.parsed[name]
	c.mu.RUnlock()
	if ok {
		return v
	}

	raw, err := c.loader.Load(ctx, name)
	if err != nil {
		slog.Warn("reference dataset load failed", "dataset", name, "error", err)
		return nil
	}
	v, err = parseDataset(name, raw)
	if err != nil {
		slog.Warn("reference dataset parse failed", "dataset", name, "error", err)
		return nil
	}

	c.mu.Lock()
	c.parsed[name] = v
	c.mu.Unlock()
	return v
}

// Snapshot loads all four datasets concurrently and joins on the
// result. Individual failures leave the corresponding field nil.
func (c *Cache) Snapshot(ctx context.Context) Snapshot {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Devices, _ = c.Get(ctx, DatasetDevices).(*DeviceCatalog)
		return nil
	})
	g.Go(func() error {
		snap.Symptoms, _ = c.Get(ctx, DatasetSymptoms).(*SymptomTaxonomy)
		return nil
	})
	g.Go(func() error {
		snap.Rewards, _ = c.Get(ctx, DatasetRewards).(*RewardsTiers)
		return nil
	})
	g.Go(func() error {
		snap.Pricing, _ = c.Get(ctx, DatasetPricing).(*PricingPlans)
		return nil
	})
	_ = g.Wait()
	return snap
}

func parseDataset(name string, raw []byte) (any, error) {
	switch name {
	case DatasetDevices:
		var v DeviceCatalog
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case DatasetSymptoms:
		var v SymptomTaxonomy
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case DatasetRewards:
		var v RewardsTiers
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case DatasetPricing:
		var v PricingPlans
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, fmt.Errorf("unknown dataset %q", name)
	}
}
