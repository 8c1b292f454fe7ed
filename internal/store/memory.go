package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AngelCh415/sales-analytics/internal/models"
	"github.com/AngelCh415/sales-analytics/internal/utils"
)

var ErrNotFound = errors.New("dataset not found")

// MemoryStore holds loaded datasets. Datasets are read-only once stored;
// callers receive the stored pointer and must not write through it.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*models.Dataset
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[string]*models.Dataset),
		now:      time.Now,
	}
}

// Put stores ds, assigning an id and load time when missing, and returns
// the id. Putting an existing id replaces that dataset.
func (s *MemoryStore) Put(ds *models.Dataset) string {
	if ds.ID == "" {
		ds.ID = uuid.NewString()
	}
	if ds.LoadedAt.IsZero() {
		ds.LoadedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.ID] = ds
	utils.DatasetsLoaded.Set(float64(len(s.datasets)))
	return ds.ID
}

func (s *MemoryStore) Get(id string) (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ds, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return ErrNotFound
	}
	delete(s.datasets, id)
	utils.DatasetsLoaded.Set(float64(len(s.datasets)))
	return nil
}

// List returns every dataset, oldest load first, id ascending on ties.
func (s *MemoryStore) List() []*models.Dataset {
	s.mu.RLock()
	out := make([]*models.Dataset, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, ds)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadedAt.Equal(out[j].LoadedAt) {
			return out[i].LoadedAt.Before(out[j].LoadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
