package cli

import (
	"context"

	"github.com/trust-chain-organization/sagebase-sub000/internal/adapters/driven/storage/memory"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driving"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/services"
)

// stubProcessor returns a canned result without calling any backend.
type stubProcessor struct {
	result domain.ProcessResult
	err    error
}

func (p *stubProcessor) Process(_ context.Context, doc domain.RawDocument) (domain.ProcessResult, error) {
	result := p.result
	result.Document = doc
	return result, p.err
}

// stubResolver matches any name against the first pool entry.
type stubResolver struct{}

func (r *stubResolver) Resolve(_ context.Context, req driving.ResolveRequest) (domain.MatchResult, error) {
	if len(req.Pool) == 0 {
		return domain.MatchResult{
			Matched: false,
			Reason:  "empty candidate pool",
			Source:  domain.MatchSourceNone,
		}, nil
	}
	return domain.MatchResult{
		Matched:    true,
		PersonID:   req.Pool[0].ID,
		Confidence: 0.95,
		Reason:     "exact match",
		Source:     domain.MatchSourceFastPath,
	}, nil
}

func (r *stubResolver) ResolveAll(ctx context.Context, utterances []domain.Utterance, req driving.ResolveRequest) ([]domain.Utterance, []domain.MatchResult, error) {
	resolved := make([]domain.Utterance, len(utterances))
	copy(resolved, utterances)
	results := make([]domain.MatchResult, len(utterances))
	for i := range resolved {
		utteranceReq := req
		utteranceReq.Name = resolved[i].Speaker
		result, err := r.Resolve(ctx, utteranceReq)
		if err != nil {
			return nil, nil, err
		}
		results[i] = result
		if result.Matched {
			id := result.PersonID
			resolved[i].ResolvedPersonID = &id
		}
	}
	return resolved, results, nil
}

// setupTestServices swaps the package-level services for in-memory fakes and
// returns a cleanup that restores the originals.
func setupTestServices() func() {
	oldSettings := settingsService
	oldProcess := processService
	oldResolver := resolverService
	oldPersons := personStore
	oldMinutes := minutesStore

	settingsService = services.NewSettingsService(memory.NewConfigStore())
	processService = &stubProcessor{}
	resolverService = &stubResolver{}
	personStore = memory.NewPersonStore()
	minutesStore = memory.NewMinutesStore()

	return func() {
		settingsService = oldSettings
		processService = oldProcess
		resolverService = oldResolver
		personStore = oldPersons
		minutesStore = oldMinutes
	}
}
