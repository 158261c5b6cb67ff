package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
)

// Ensure MinutesStore implements the interface.
var _ driven.MinutesStore = (*MinutesStore)(nil)

// MinutesStore is an in-memory implementation of driven.MinutesStore.
type MinutesStore struct {
	mu         sync.RWMutex
	documents  map[string]domain.RawDocument
	utterances map[string]domain.Utterance
}

// NewMinutesStore creates a new in-memory minutes store.
func NewMinutesStore() *MinutesStore {
	return &MinutesStore{
		documents:  make(map[string]domain.RawDocument),
		utterances: make(map[string]domain.Utterance),
	}
}

// SaveDocument stores a processed document record.
func (s *MinutesStore) SaveDocument(_ context.Context, doc domain.RawDocument) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc
	return nil
}

// SaveUtterances stores the extracted utterances of a document.
func (s *MinutesStore) SaveUtterances(_ context.Context, utterances []domain.Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range utterances {
		if u.ID == "" {
			return domain.ErrInvalidInput
		}
		s.utterances[u.ID] = u
	}
	return nil
}

// ApplyResolution records a resolution decision for one utterance.
// Unmatched results and repeat applications leave the record unchanged.
func (s *MinutesStore) ApplyResolution(_ context.Context, utteranceID string, result domain.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.utterances[utteranceID]
	if !ok {
		return domain.ErrNotFound
	}

	if !result.Matched || result.PersonID == "" {
		return nil
	}
	if u.ResolvedPersonID != nil && *u.ResolvedPersonID == result.PersonID {
		return nil
	}

	personID := result.PersonID
	u.ResolvedPersonID = &personID
	s.utterances[utteranceID] = u
	return nil
}

// ListUtterances returns a document's utterances in sequence order.
func (s *MinutesStore) ListUtterances(_ context.Context, documentID string) ([]domain.Utterance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Utterance
	for _, u := range s.utterances {
		if u.DocumentID == documentID {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})
	return result, nil
}

// GetDocument retrieves a stored document by ID.
func (s *MinutesStore) GetDocument(_ context.Context, id string) (domain.RawDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.RawDocument{}, domain.ErrNotFound
	}
	return doc, nil
}
