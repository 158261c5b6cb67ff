package driven

import (
	"context"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

// KeywordProvider supplies the ordered chapter keyword list used to divide
// the utterance body. The list is produced upstream and handed over as-is;
// segmentation treats it as authoritative but imperfect.
type KeywordProvider interface {
	// Keywords returns the ordered keyword list.
	Keywords(ctx context.Context) ([]domain.ChapterKeyword, error)
}
