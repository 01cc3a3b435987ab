package storage

import (
	"slices"
	"strings"
	"sync"

	"github.com/lehigh-university-libraries/bibmatch/internal/models"
)

// DecisionStore keeps API decisions in memory for the life of the server.
type DecisionStore struct {
	decisions map[string]*models.DecisionRecord
	mu        sync.RWMutex
}

func New() *DecisionStore {
	return &DecisionStore{
		decisions: make(map[string]*models.DecisionRecord),
	}
}

func (s *DecisionStore) Get(id string) (*models.DecisionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, exists := s.decisions[id]
	return rec, exists
}

func (s *DecisionStore) Set(rec *models.DecisionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[rec.ID] = rec
}

// List returns every stored decision, oldest first.
func (s *DecisionStore) List() []*models.DecisionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.DecisionRecord, 0, len(s.decisions))
	for _, v := range s.decisions {
		result = append(result, v)
	}
	slices.SortFunc(result, func(a, b *models.DecisionRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

func (s *DecisionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.decisions, id)
}
