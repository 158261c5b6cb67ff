package services

import (
	"strings"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/textnorm"
)

// CandidateSelector narrows the person pool to a bounded candidate set with
// deterministic heuristics, so the probabilistic step's prompt stays small.
// The bound is a deliberate precision/recall trade-off: a person outside the
// returned set can never be matched for this name.
type CandidateSelector struct {
	honorifics []string
}

// NewCandidateSelector creates a selector. An empty honorific list falls
// back to domain.DefaultHonorifics.
func NewCandidateSelector(honorifics []string) *CandidateSelector {
	if len(honorifics) == 0 {
		honorifics = domain.DefaultHonorifics
	}
	return &CandidateSelector{honorifics: honorifics}
}

// Select partitions pool into priority and other candidates, preserving
// pool order within each partition, and returns all priority members
// followed by enough others to reach max. Priority means affiliated with
// the current body, or a name with a containment relation to the target.
func (s *CandidateSelector) Select(name string, pool []domain.Person, affiliation string, max int) []domain.MatchCandidate {
	if max <= 0 || len(pool) == 0 {
		return nil
	}

	target := textnorm.NormalizeName(name, s.honorifics)
	normAffil := textnorm.Normalize(affiliation)

	var priority, other []domain.MatchCandidate
	for _, p := range pool {
		if s.isPriority(p, target, normAffil) {
			priority = append(priority, domain.MatchCandidate{Person: p, Priority: true})
		} else {
			other = append(other, domain.MatchCandidate{Person: p, Priority: false})
		}
	}

	if len(priority) >= max {
		return priority[:max]
	}

	selected := priority
	for _, c := range other {
		if len(selected) >= max {
			break
		}
		selected = append(selected, c)
	}
	return selected
}

func (s *CandidateSelector) isPriority(p domain.Person, target, affiliation string) bool {
	if affiliation != "" && textnorm.Normalize(p.Affiliation) == affiliation {
		return true
	}
	if target == "" {
		return false
	}
	candidate := textnorm.NormalizeName(p.Name, s.honorifics)
	if candidate == "" {
		return false
	}
	return strings.Contains(target, candidate) || strings.Contains(candidate, target)
}
