package driving

import (
	"context"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

// MinutesProcessor runs the segmentation pipeline on one document:
// normalisation, boundary detection, chaptering, utterance extraction.
type MinutesProcessor interface {
	// Process segments doc into ordered utterances. The returned result
	// carries every degraded-mode warning raised along the way; a non-nil
	// error means at least one chapter failed hard.
	Process(ctx context.Context, doc domain.RawDocument) (domain.ProcessResult, error)
}
