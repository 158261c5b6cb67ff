package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driving"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
)

// Ensure Resolver implements the interface.
var _ driving.SpeakerResolver = (*Resolver)(nil)

// ResolutionState enumerates the states of one resolution request. The
// control flow is an explicit finite-state machine rather than a graph
// runtime: every transition below is visible in Resolve.
type ResolutionState int

const (
	// StateStart is the initial state: a name and pool have been received.
	StateStart ResolutionState = iota
	// StateFastMatched means the deterministic tier produced a result.
	StateFastMatched
	// StateCandidatesSelected means the bounded candidate set is built.
	StateCandidatesSelected
	// StateLLMInvoked means the completion service is judging.
	StateLLMInvoked
	// StateResolved is terminal: a candidate was accepted.
	StateResolved
	// StateUnresolved is terminal: no candidate was accepted.
	StateUnresolved
)

// String returns the state name for logging.
func (s ResolutionState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateFastMatched:
		return "FAST_MATCHED"
	case StateCandidatesSelected:
		return "CANDIDATES_SELECTED"
	case StateLLMInvoked:
		return "LLM_INVOKED"
	case StateResolved:
		return "RESOLVED"
	case StateUnresolved:
		return "UNRESOLVED"
	default:
		return fmt.Sprintf("ResolutionState(%d)", int(s))
	}
}

// Resolver orchestrates the two matching tiers: fast path first, then
// bounded candidate selection, then the probabilistic judgment with the
// per-kind acceptance threshold. Thresholds come from the policy table,
// never from call sites.
type Resolver struct {
	fastPath *FastPathMatcher
	selector *CandidateSelector
	matcher  *ProbabilisticMatcher
	policies map[domain.EntityKind]domain.ResolutionPolicy
}

// NewResolver creates a resolver. A nil policy map falls back to
// domain.DefaultResolutionPolicies.
func NewResolver(
	fastPath *FastPathMatcher,
	selector *CandidateSelector,
	matcher *ProbabilisticMatcher,
	policies map[domain.EntityKind]domain.ResolutionPolicy,
) *Resolver {
	if policies == nil {
		policies = domain.DefaultResolutionPolicies
	}
	return &Resolver{
		fastPath: fastPath,
		selector: selector,
		matcher:  matcher,
		policies: policies,
	}
}

// Resolve runs the state machine for one name.
func (r *Resolver) Resolve(ctx context.Context, req driving.ResolveRequest) (domain.MatchResult, error) {
	policy := domain.PolicyFor(r.policies, req.Kind)
	state := StateStart
	logger.Debug("resolve %q (%s): %s", req.Name, req.Kind, state)

	if result := r.fastPath.TryMatch(req.Name, req.Pool); result != nil {
		state = StateFastMatched
		logger.Debug("resolve %q: %s -> %s (confidence %.2f)", req.Name, state, StateResolved, result.Confidence)
		return *result, nil
	}

	candidates := r.selector.Select(req.Name, req.Pool, req.Affiliation, policy.MaxCandidates)
	state = StateCandidatesSelected
	logger.Debug("resolve %q: %s with %d candidates", req.Name, state, len(candidates))

	if len(candidates) == 0 {
		logger.Debug("resolve %q: %s -> %s (empty pool)", req.Name, state, StateUnresolved)
		return domain.MatchResult{
			Matched: false,
			Reason:  "no candidates",
			Source:  domain.MatchSourceNone,
		}, nil
	}

	state = StateLLMInvoked
	judgment, err := r.matcher.Judge(ctx, req.Kind, req.Name, candidates)
	if err != nil {
		// Service failure is transient and retryable upstream; it must
		// never be reported as "unresolved".
		return domain.MatchResult{}, err
	}

	// Inclusive threshold: a judgment at exactly the configured value is
	// accepted.
	if judgment.Matched && judgment.Confidence >= policy.Threshold {
		logger.Debug("resolve %q: %s -> %s (%s, confidence %.2f)",
			req.Name, state, StateResolved, judgment.PersonID, judgment.Confidence)
		return domain.MatchResult{
			Matched:    true,
			PersonID:   judgment.PersonID,
			Confidence: judgment.Confidence,
			Reason:     judgment.Reason,
			Source:     domain.MatchSourceProbabilistic,
		}, nil
	}

	logger.Debug("resolve %q: %s -> %s (confidence %.2f < threshold %.2f)",
		req.Name, state, StateUnresolved, judgment.Confidence, policy.Threshold)
	reason := judgment.Reason
	if judgment.Matched {
		reason = fmt.Sprintf("confidence %.2f below threshold %.2f", judgment.Confidence, policy.Threshold)
	}
	return domain.MatchResult{
		Matched:    false,
		Confidence: judgment.Confidence,
		Reason:     reason,
		Source:     domain.MatchSourceProbabilistic,
	}, nil
}

// ResolveAll resolves each utterance's speaker. Resolution results are
// independent and idempotent, so cancellation between utterances leaves a
// safe, resumable partial state. Per-utterance service failures are
// collected and returned joined; the remaining utterances still run.
func (r *Resolver) ResolveAll(ctx context.Context, utterances []domain.Utterance, req driving.ResolveRequest) ([]domain.Utterance, []domain.MatchResult, error) {
	resolved := make([]domain.Utterance, len(utterances))
	copy(resolved, utterances)
	results := make([]domain.MatchResult, len(utterances))

	var errs []error
	for i := range resolved {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if resolved[i].ResolvedPersonID != nil {
			results[i] = domain.MatchResult{
				Matched:    true,
				PersonID:   *resolved[i].ResolvedPersonID,
				Confidence: 1.0,
				Reason:     "already resolved",
				Source:     domain.MatchSourceFastPath,
			}
			continue
		}

		utteranceReq := req
		utteranceReq.Name = resolved[i].Speaker
		result, err := r.Resolve(ctx, utteranceReq)
		if err != nil {
			errs = append(errs, fmt.Errorf("utterance %d: %w", resolved[i].Sequence, err))
			continue
		}
		results[i] = result
		if result.Matched {
			id := result.PersonID
			resolved[i].ResolvedPersonID = &id
		}
	}

	return resolved, results, errors.Join(errs...)
}
