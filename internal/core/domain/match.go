package domain

// EntityKind identifies what sort of name is being resolved. Confidence
// thresholds are configured per kind.
type EntityKind string

const (
	// KindSpeaker is a speaker name as written in minutes.
	KindSpeaker EntityKind = "speaker"

	// KindPolitician is a roster name scraped from an external member list.
	KindPolitician EntityKind = "politician"
)

// MatchSource records which tier of the matching engine produced a result.
type MatchSource string

const (
	// MatchSourceFastPath is a deterministic string match.
	MatchSourceFastPath MatchSource = "fast-path"

	// MatchSourceProbabilistic is a completion-service judgment.
	MatchSourceProbabilistic MatchSource = "probabilistic"

	// MatchSourceNone means no matching was attempted (empty candidate pool).
	MatchSourceNone MatchSource = "none"
)

// MatchResult is the sole output of a resolution request. The caller applies
// it to storage; the matching core never writes results itself.
type MatchResult struct {
	// Matched reports whether a candidate was accepted.
	Matched bool

	// PersonID is the accepted candidate's ID. Empty when Matched is false.
	PersonID string

	// Confidence is the match confidence in [0, 1].
	Confidence float64

	// Reason explains the decision.
	Reason string

	// Source is which tier decided.
	Source MatchSource
}

// MatchJudgment is the structured verdict returned by the completion service
// for one name against one candidate set, before the acceptance threshold is
// applied.
type MatchJudgment struct {
	Matched    bool    `json:"matched"`
	PersonID   string  `json:"person_id"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}
