package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
	"github.com/trust-chain-organization/sagebase-sub000/internal/textnorm"
)

// containmentMinRunes guards the near-match rule: names this short contain
// each other too easily to mean anything.
const containmentMinRunes = 2

// FastPathMatcher performs deterministic string matching before any
// completion-service judgment, keeping the common case cheap. It either
// returns a high-confidence result or nil, never a low-confidence match:
// anything uncertain is deferred to the probabilistic tier.
type FastPathMatcher struct {
	honorifics []string
	confidence float64
}

// NewFastPathMatcher creates a matcher. Zero values fall back to
// domain.DefaultHonorifics and the default fast-path confidence.
func NewFastPathMatcher(honorifics []string, confidence float64) *FastPathMatcher {
	if len(honorifics) == 0 {
		honorifics = domain.DefaultHonorifics
	}
	if confidence <= 0 {
		confidence = domain.DefaultResolutionPolicies[domain.KindSpeaker].FastPathConfidence
	}
	return &FastPathMatcher{honorifics: honorifics, confidence: confidence}
}

// TryMatch attempts an exact or near-exact match of name against pool.
// It returns nil to defer to probabilistic matching; it never invokes the
// completion service.
func (m *FastPathMatcher) TryMatch(name string, pool []domain.Person) *domain.MatchResult {
	target := textnorm.NormalizeName(name, m.honorifics)
	if target == "" {
		return nil
	}

	// Exact match on the normalised name. Ambiguity (two pool members with
	// the same written name) is deferred, not guessed at.
	var exact *domain.Person
	exactCount := 0
	for i := range pool {
		if textnorm.NormalizeName(pool[i].Name, m.honorifics) == target {
			exact = &pool[i]
			exactCount++
		}
	}
	if exactCount == 1 {
		logger.Debug("fast-path: %q exactly matches %s", name, exact.ID)
		return &domain.MatchResult{
			Matched:    true,
			PersonID:   exact.ID,
			Confidence: 1.0,
			Reason:     fmt.Sprintf("exact name match: %q", target),
			Source:     domain.MatchSourceFastPath,
		}
	}
	if exactCount > 1 {
		return nil
	}

	// Near match: unique containment between the normalised names. Covers
	// minutes that write only the family name or append a role.
	var near *domain.Person
	nearCount := 0
	for i := range pool {
		candidate := textnorm.NormalizeName(pool[i].Name, m.honorifics)
		if utf8.RuneCountInString(candidate) < containmentMinRunes ||
			utf8.RuneCountInString(target) < containmentMinRunes {
			continue
		}
		if strings.Contains(target, candidate) || strings.Contains(candidate, target) {
			near = &pool[i]
			nearCount++
		}
	}
	if nearCount == 1 {
		logger.Debug("fast-path: %q near-matches %s", name, near.ID)
		return &domain.MatchResult{
			Matched:    true,
			PersonID:   near.ID,
			Confidence: m.confidence,
			Reason:     fmt.Sprintf("near match: %q contains or is contained by %q", target, near.Name),
			Source:     domain.MatchSourceFastPath,
		}
	}

	return nil
}
