package memory

import (
	"context"
	"sync"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
)

// Ensure PersonStore implements the interface.
var _ driven.PersonStore = (*PersonStore)(nil)

// PersonStore is an in-memory implementation of driven.PersonStore.
// List order is insertion order, which keeps candidate selection stable.
type PersonStore struct {
	mu      sync.RWMutex
	persons map[string]domain.Person
	order   []string
}

// NewPersonStore creates a new in-memory person store.
func NewPersonStore() *PersonStore {
	return &PersonStore{
		persons: make(map[string]domain.Person),
	}
}

// Save stores or updates a person.
func (s *PersonStore) Save(_ context.Context, person domain.Person) error {
	if person.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.persons[person.ID]; !ok {
		s.order = append(s.order, person.ID)
	}
	s.persons[person.ID] = person
	return nil
}

// Get retrieves a person by ID.
func (s *PersonStore) Get(_ context.Context, id string) (domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	person, ok := s.persons[id]
	if !ok {
		return domain.Person{}, domain.ErrNotFound
	}
	return person, nil
}

// List returns all persons in insertion order.
func (s *PersonStore) List(_ context.Context) ([]domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Person, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.persons[id])
	}
	return result, nil
}

// ListByAffiliation returns persons with the given affiliation, in insertion order.
func (s *PersonStore) ListByAffiliation(_ context.Context, affiliation string) ([]domain.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Person
	for _, id := range s.order {
		if s.persons[id].Affiliation == affiliation {
			result = append(result, s.persons[id])
		}
	}
	return result, nil
}

// Delete removes a person.
func (s *PersonStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.persons[id]; !ok {
		return nil
	}
	delete(s.persons, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
