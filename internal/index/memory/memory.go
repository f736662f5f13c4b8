// Package memory is the default vector index backend: a brute-force cosine
// store that keeps everything in process. It is the backend used by tests
// and by deployments without a Postgres instance.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/docforge/docforge/internal/index"
	"github.com/docforge/docforge/internal/model"
)

type store struct {
	mu        sync.RWMutex
	dimension int
	items     []index.Item
	byID      map[string]int
}

func init() {
	index.Register("memory", create)
}

func create(_ interface{}, dimension int) (index.Backend, error) {
	return &store{
		dimension: dimension,
		byID:      make(map[string]int),
	}, nil
}

func (s *store) Upsert(_ context.Context, items []index.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if pos, ok := s.byID[item.ID]; ok {
			s.items[pos] = item
			continue
		}
		s.byID[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return nil
}

func (s *store) DeleteByDoc(_ context.Context, docID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	removed := 0
	for _, item := range s.items {
		if item.Meta.DocID == docID {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.byID = make(map[string]int, len(s.items))
	for pos, item := range s.items {
		s.byID[item.ID] = pos
	}
	return removed, nil
}

func (s *store) Search(_ context.Context, vector []float32, topK int) ([]model.ChunkMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	matches := make([]model.ChunkMatch, 0, len(s.items))
	for _, item := range s.items {
		// Vectors are L2-normalized, so cosine distance is 1 - dot.
		matches = append(matches, model.ChunkMatch{
			Text:     item.Text,
			Distance: 1 - dot(item.Vector, vector),
			Meta:     item.Meta,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK], nil
}

func (s *store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *store) Drop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.byID = make(map[string]int)
	return nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
