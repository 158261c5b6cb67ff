package driving

import (
	"context"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

// ResolveRequest is one name-resolution request.
type ResolveRequest struct {
	// Name is the name to resolve, as written.
	Name string

	// Kind selects the resolution policy.
	Kind domain.EntityKind

	// Affiliation is the current body's affiliation context; pool members
	// sharing it are treated as priority candidates.
	Affiliation string

	// Pool is the read-only candidate person pool.
	Pool []domain.Person
}

// SpeakerResolver resolves written names to canonical persons.
type SpeakerResolver interface {
	// Resolve decides whether Name refers to someone in Pool. A MatchResult
	// with Matched=false is a terminal business outcome, not an error; a
	// non-nil error means the completion service failed after retries.
	Resolve(ctx context.Context, req ResolveRequest) (domain.MatchResult, error)

	// ResolveAll resolves the speaker of each utterance against Pool and
	// fills in ResolvedPersonID on matches. It is cancellable between
	// utterances; already-resolved entries are left untouched. The returned
	// error aggregates per-utterance service failures.
	ResolveAll(ctx context.Context, utterances []domain.Utterance, req ResolveRequest) ([]domain.Utterance, []domain.MatchResult, error)
}
