package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"sales-insights/internal/models"
)

// Dataset is a loaded and normalized record set. It is immutable for
// the session: every interaction derives filtered views from Orders
// but never mutates them.
type Dataset struct {
	Source            string
	Orders            []models.Order
	DuplicatesRemoved int
	LoadedAt          time.Time
}

// Regions returns the distinct regions, sorted, for filter panels.
func (d *Dataset) Regions() []string {
	return d.distinct(DimRegion)
}

// Categories returns the distinct categories, sorted.
func (d *Dataset) Categories() []string {
	return d.distinct(DimCategory)
}

func (d *Dataset) distinct(dim Dimension) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, o := range d.Orders {
		v := dim.valueOf(o)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// DateBounds returns the earliest and latest order dates, zero times
// when the dataset is empty.
func (d *Dataset) DateBounds() (min, max time.Time) {
	for _, o := range d.Orders {
		if min.IsZero() || o.OrderDate.Before(min) {
			min = o.OrderDate
		}
		if o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}
	return min, max
}

// LoadFunc produces raw rows for a source path. Injectable so tests
// control what a path resolves to.
type LoadFunc func(ctx context.Context, path string) ([]models.RawOrder, error)

// Store memoizes load-plus-normalize per source path so repeated
// filter and aggregate calls in an interactive session do not re-parse
// the file. The source is treated as immutable for the session;
// Invalidate drops a cached dataset so the next access recomputes it.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	load     LoadFunc
	logger   *slog.Logger
}

func NewStore(load LoadFunc, logger *slog.Logger) *Store {
	return &Store{
		datasets: make(map[string]*Dataset),
		load:     load,
		logger:   logger,
	}
}

// Dataset returns the cached dataset for path, loading and normalizing
// it on first access.
func (s *Store) Dataset(ctx context.Context, path string) (*Dataset, error) {
	s.mu.RLock()
	ds, ok := s.datasets[path]
	s.mu.RUnlock()
	if ok {
		return ds, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ds, ok := s.datasets[path]; ok {
		return ds, nil
	}

	raws, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}
	orders, duplicates, err := Normalize(raws)
	if err != nil {
		return nil, err
	}

	ds = &Dataset{
		Source:            path,
		Orders:            orders,
		DuplicatesRemoved: duplicates,
		LoadedAt:          time.Now(),
	}
	s.datasets[path] = ds

	s.logger.Info("dataset normalized",
		"source", path,
		"orders", len(orders),
		"duplicates_removed", duplicates,
	)

	return ds, nil
}

// Invalidate removes the cached dataset for path.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, path)
}

// Stats summarizes cached datasets for the admin endpoint.
func (s *Store) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]map[string]any, 0, len(s.datasets))
	for path, ds := range s.datasets {
		sources = append(sources, map[string]any{
			"source":             path,
			"orders":             len(ds.Orders),
			"duplicates_removed": ds.DuplicatesRemoved,
			"loaded_at":          ds.LoadedAt,
		})
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i]["source"].(string) < sources[j]["source"].(string)
	})

	return map[string]any{
		"cached_datasets": len(s.datasets),
		"sources":         sources,
	}
}
