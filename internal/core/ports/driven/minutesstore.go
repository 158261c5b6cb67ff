package driven

import (
	"context"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

// MinutesStore persists processed documents and their utterances.
// The segmentation/resolution core never writes here; the driving side
// applies pipeline output and MatchResults after receiving them.
type MinutesStore interface {
	// SaveDocument stores a processed document record.
	SaveDocument(ctx context.Context, doc domain.RawDocument) error

	// SaveUtterances stores the extracted utterances of a document.
	SaveUtterances(ctx context.Context, utterances []domain.Utterance) error

	// ApplyResolution records a resolution decision for one utterance.
	// Applying the same result twice is a no-op, so partial resolution runs
	// can safely be resumed.
	ApplyResolution(ctx context.Context, utteranceID string, result domain.MatchResult) error

	// ListUtterances returns a document's utterances in sequence order.
	ListUtterances(ctx context.Context, documentID string) ([]domain.Utterance, error)
}
