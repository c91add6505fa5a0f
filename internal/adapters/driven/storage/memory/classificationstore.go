package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
)

// Ensure ClassificationStore implements the interface.
var _ driven.ClassificationStore = (*ClassificationStore)(nil)

// ClassificationStore is an in-memory implementation of driven.ClassificationStore.
type ClassificationStore struct {
	mu      sync.RWMutex
	records map[string]domain.Classification
	order   []string
}

// NewClassificationStore creates a new in-memory classification store.
func NewClassificationStore() *ClassificationStore {
	return &ClassificationStore{
		records: make(map[string]domain.Classification),
	}
}

// Save records a classification, replacing any record with the same ID.
func (s *ClassificationStore) Save(_ context.Context, c *domain.Classification) error {
	if c == nil || c.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.records[c.ID] = copyClassification(*c)
	return nil
}

// Get retrieves a classification by ID.
func (s *ClassificationStore) Get(_ context.Context, id string) (*domain.Classification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c = copyClassification(c)
	return &c, nil
}

// List returns the most recent classifications, newest first.
func (s *ClassificationStore) List(_ context.Context, limit int) ([]domain.Classification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Classification, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, copyClassification(s.records[id]))
	}
	sortNewestFirst(result)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// LatestForPath returns the newest classification of path.
func (s *ClassificationStore) LatestForPath(_ context.Context, path string) (*domain.Classification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Classification
	for _, id := range s.order {
		c := s.records[id]
		if c.Path != path {
			continue
		}
		if latest == nil || !c.ClassifiedAt.Before(latest.ClassifiedAt) {
			cp := copyClassification(c)
			latest = &cp
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

// Prune deletes all but the newest keep classifications.
func (s *ClassificationStore) Prune(_ context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]domain.Classification, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}
	sortNewestFirst(records)
	if len(records) <= keep {
		return 0, nil
	}

	removed := records[keep:]
	for _, c := range removed {
		delete(s.records, c.ID)
	}
	order := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.records[id]; ok {
			order = append(order, id)
		}
	}
	s.order = order
	return len(removed), nil
}

// sortNewestFirst orders by ClassifiedAt descending; ties keep insertion order reversed.
func sortNewestFirst(records []domain.Classification) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ClassifiedAt.After(records[j].ClassifiedAt)
	})
}

func copyClassification(c domain.Classification) domain.Classification {
	if c.Probed != nil {
		c.Probed = append([]string(nil), c.Probed...)
	}
	return c
}
