// Package manager loads and caches nutrition datasets. A dataset is one
// CSV file under the base directory, with an optional YAML sidecar carrying
// display metadata.
package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"

	"github.com/dellavent/glycemicguard/pkg/knowledge"
	"github.com/dellavent/glycemicguard/pkg/match"
	"github.com/dellavent/glycemicguard/pkg/safety"
)

// DatasetMetadata is the dataset information exposed by the API.
type DatasetMetadata struct {
	ID          string `json:"id" yaml:"-"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

const (
	// MaxOpenDatasets bounds loaded stores plus their embedding tables.
	MaxOpenDatasets = 10
	DatasetListTTL  = 1 * time.Minute
)

// Dataset bundles the loaded pieces for one CSV: the immutable store, the
// matcher over its names, and the safety engine.
type Dataset struct {
	ID      string
	Store   *knowledge.Store
	Matcher *match.Matcher
	Engine  *safety.Engine
}

// DatasetManager manages multiple loaded datasets behind an LRU. Loading a
// dataset embeds its whole corpus, so eviction keeps memory bounded when a
// server fronts many CSVs.
type DatasetManager struct {
	baseDir    string
	embedder   match.Embedder
	thresholds safety.Thresholds

	datasets *lru.Cache[string, *Dataset]
	mu       sync.Mutex

	cachedList    []DatasetMetadata
	lastListBuild time.Time
}

// NewDatasetManager creates a manager over baseDir. embedder may be nil;
// matchers then run in substring-fallback mode.
func NewDatasetManager(baseDir string, embedder match.Embedder, thresholds safety.Thresholds) *DatasetManager {
	cache, _ := lru.New[string, *Dataset](MaxOpenDatasets)
	return &DatasetManager{
		baseDir:    baseDir,
		embedder:   embedder,
		thresholds: thresholds,
		datasets:   cache,
	}
}

// GetDataset retrieves a dataset by ID, loading it if necessary.
func (dm *DatasetManager) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	// Fast path: lru.Get updates recency.
	if d, ok := dm.datasets.Get(id); ok {
		return d, nil
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	// Double-check under lock
	if d, ok := dm.datasets.Get(id); ok {
		return d, nil
	}

	path := filepath.Join(dm.baseDir, id+".csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}

	store, err := knowledge.Open(path)
	if err != nil {
		return nil, err
	}

	var matcher *match.Matcher
	if dm.embedder != nil {
		matcher = match.NewWithEmbedder(ctx, store.ListNames(), dm.embedder)
	} else {
		matcher = match.New(store.ListNames())
	}

	d := &Dataset{
		ID:      id,
		Store:   store,
		Matcher: matcher,
		Engine:  safety.NewEngineWithThresholds(store, dm.thresholds),
	}
	dm.datasets.Add(id, d)
	return d, nil
}

// ListDatasets scans the base directory for CSV datasets and their optional
// YAML sidecars. The listing is cached with a short TTL since servers call
// this per request.
func (dm *DatasetManager) ListDatasets() ([]DatasetMetadata, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.cachedList != nil && time.Since(dm.lastListBuild) < DatasetListTTL {
		return dm.cachedList, nil
	}

	entries, err := os.ReadDir(dm.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	list := make([]DatasetMetadata, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".csv")
		meta := DatasetMetadata{ID: id, Name: id}

		if data, err := os.ReadFile(filepath.Join(dm.baseDir, id+".yaml")); err == nil {
			var sidecar DatasetMetadata
			if err := yaml.Unmarshal(data, &sidecar); err == nil {
				if sidecar.Name != "" {
					meta.Name = sidecar.Name
				}
				meta.Description = sidecar.Description
			}
		}
		list = append(list, meta)
	}

	dm.cachedList = list
	dm.lastListBuild = time.Now()
	return list, nil
}
