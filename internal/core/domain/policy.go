package domain

// ResolutionPolicy is the named per-entity-kind matching configuration.
// Every threshold the engine applies lives here, not at call sites.
type ResolutionPolicy struct {
	// Kind is the entity kind this policy applies to.
	Kind EntityKind

	// Threshold is the minimum completion-service confidence required to
	// accept a probabilistic match. The comparison is inclusive: a judgment
	// at exactly the threshold is accepted.
	Threshold float64

	// MaxCandidates bounds the candidate set passed to the completion
	// service. Candidates beyond the bound can never be matched; this is a
	// deliberate precision/recall trade-off that keeps prompt size bounded.
	MaxCandidates int

	// FastPathConfidence is the confidence reported for a near-exact
	// deterministic match. The fast path never returns a result below it.
	FastPathConfidence float64
}

// DefaultResolutionPolicies is the policy table applied when the config file
// does not override a kind.
//
// Speaker names come straight out of minutes text and carry honorifics and
// transcription noise, so they need the stricter threshold. Roster names are
// already list-shaped and tolerate a looser one. The 0.9 fast-path constant
// and both thresholds are empirical defaults, configurable rather than fixed.
var DefaultResolutionPolicies = map[EntityKind]ResolutionPolicy{
	KindSpeaker: {
		Kind:               KindSpeaker,
		Threshold:          0.8,
		MaxCandidates:      10,
		FastPathConfidence: 0.9,
	},
	KindPolitician: {
		Kind:               KindPolitician,
		Threshold:          0.7,
		MaxCandidates:      10,
		FastPathConfidence: 0.9,
	},
}

// PolicyFor returns the policy for kind from the table, falling back to the
// speaker policy for unknown kinds.
func PolicyFor(policies map[EntityKind]ResolutionPolicy, kind EntityKind) ResolutionPolicy {
	if p, ok := policies[kind]; ok {
		return p
	}
	return DefaultResolutionPolicies[KindSpeaker]
}

// DefaultHonorifics are the trailing suffixes stripped during name
// normalisation, in strip-priority order.
var DefaultHonorifics = []string{
	"君",
	"さん",
	"氏",
	"様",
	"議員",
	"委員",
	"先生",
}

// DefaultBoundaryMarkers are the literals separating the roster preamble
// from the utterance body, in priority order. Scrapers insert the explicit
// ｜境界｜ divider when they can identify the roster block themselves; the
// remaining markers cover documents where they could not.
var DefaultBoundaryMarkers = []string{
	"｜境界｜",
	"本日の会議に付した事件",
	"議事日程",
	"午前十時開議",
	"開議",
}

// DefaultMinPartialKeywordLen is the minimum keyword length (in runes) for
// the leading-fragment fallback during chaptering, and the fragment length
// used. An empirical default, configurable rather than fixed.
const DefaultMinPartialKeywordLen = 10
