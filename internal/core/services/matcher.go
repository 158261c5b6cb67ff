package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
	"github.com/trust-chain-organization/sagebase-sub000/internal/retry"
)

// defaultJudgePrompt is the fallback prompt when no PromptStore is configured.
const defaultJudgePrompt = `会議録に書かれた名前がどの人物を指すか判定してください。
Name as written: %s

Candidates:
%s

Return ONLY a JSON object with keys "matched" (boolean), "person_id"
(the candidate id, or "" if none), "confidence" (0.0-1.0), and "reason"
(a short explanation). If no candidate is the same person, set matched
to false.`

// ProbabilisticMatcher asks the completion service which candidate, if any,
// a written name refers to. It returns the raw judgment; applying the
// acceptance threshold is the resolver's job. A transport or format failure
// is a MatchServiceError, never an unresolved result.
type ProbabilisticMatcher struct {
	completion  driven.CompletionService
	promptStore driven.PromptStore
	policy      retry.Policy
	limiter     *retry.Limiter
}

// NewProbabilisticMatcher creates a matcher. The limiter may be nil.
func NewProbabilisticMatcher(completion driven.CompletionService, policy retry.Policy, limiter *retry.Limiter) *ProbabilisticMatcher {
	return &ProbabilisticMatcher{
		completion: completion,
		policy:     policy,
		limiter:    limiter,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (m *ProbabilisticMatcher) SetPromptStore(store driven.PromptStore) {
	m.promptStore = store
}

// Judge asks the service for a structured verdict on name against candidates.
func (m *ProbabilisticMatcher) Judge(ctx context.Context, kind domain.EntityKind, name string, candidates []domain.MatchCandidate) (domain.MatchJudgment, error) {
	if m.completion == nil {
		return domain.MatchJudgment{}, &domain.MatchServiceError{
			Kind: kind, Name: name, Err: domain.ErrCompletionUnavailable,
		}
	}

	template := loadPrompt(m.promptStore, driven.PromptJudgeMatch, defaultJudgePrompt)
	prompt := fmt.Sprintf(template, name, formatCandidates(candidates))

	var judgment domain.MatchJudgment
	err := m.policy.Do(ctx, func(ctx context.Context) error {
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
		raw, err := m.completion.Complete(ctx, prompt, driven.CompletionOptions{
			MaxTokens:   512,
			Temperature: 0.0,
		})
		if err != nil {
			return fmt.Errorf("completion request: %w", err)
		}

		parsed, err := parseJudgment(raw, candidates)
		if err != nil {
			return err
		}
		judgment = parsed
		return nil
	})
	if err != nil {
		return domain.MatchJudgment{}, &domain.MatchServiceError{Kind: kind, Name: name, Err: err}
	}
	return judgment, nil
}

// formatCandidates renders the candidate list for the prompt, one per line.
func formatCandidates(candidates []domain.MatchCandidate) string {
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "- id: %s, name: %s", c.Person.ID, c.Person.Name)
		if c.Person.Affiliation != "" {
			fmt.Fprintf(&b, ", affiliation: %s", c.Person.Affiliation)
		}
		if c.Person.Role != "" {
			fmt.Fprintf(&b, ", role: %s", c.Person.Role)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// parseJudgment decodes and validates the service's verdict. A matched=true
// verdict must name a candidate that was actually offered.
func parseJudgment(raw string, candidates []domain.MatchCandidate) (domain.MatchJudgment, error) {
	block, err := jsonObjectBlock(raw)
	if err != nil {
		return domain.MatchJudgment{}, err
	}

	var j domain.MatchJudgment
	if err := json.Unmarshal([]byte(block), &j); err != nil {
		return domain.MatchJudgment{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if j.Confidence < 0 || j.Confidence > 1 {
		return domain.MatchJudgment{}, fmt.Errorf("%w: confidence %v out of range",
			domain.ErrMalformedResponse, j.Confidence)
	}
	if j.Matched {
		found := false
		for _, c := range candidates {
			if c.Person.ID == j.PersonID {
				found = true
				break
			}
		}
		if !found {
			return domain.MatchJudgment{}, fmt.Errorf("%w: person_id %q is not a candidate",
				domain.ErrMalformedResponse, j.PersonID)
		}
	}
	return j, nil
}
