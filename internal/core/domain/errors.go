package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// A non-match (MatchResult with Matched=false) is never an error: it is an
// expected business outcome. Errors here mean the pipeline could not produce
// an answer at all.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCompletionUnavailable indicates the text-completion service is not
	// configured. Extraction and probabilistic matching are disabled without it.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrNoKeywords indicates the keyword provider returned an empty list,
	// so the utterance body cannot be divided into chapters.
	ErrNoKeywords = errors.New("no chapter keywords available")

	// ErrMalformedResponse indicates the completion service returned output
	// that does not satisfy the structured-output contract.
	ErrMalformedResponse = errors.New("malformed completion response")
)

// ExtractionError reports that utterance extraction failed for one chapter.
// It is a hard failure for that chapter: the extractor never substitutes an
// empty utterance list for a failed service call.
type ExtractionError struct {
	ChapterNumber    int
	SubChapterNumber *int
	Err              error
}

func (e *ExtractionError) Error() string {
	if e.SubChapterNumber != nil {
		return fmt.Sprintf("extracting utterances from chapter %d.%d: %v",
			e.ChapterNumber, *e.SubChapterNumber, e.Err)
	}
	return fmt.Sprintf("extracting utterances from chapter %d: %v", e.ChapterNumber, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// MatchServiceError reports that the completion service failed while judging
// a candidate match. It is transient and retryable, and deliberately distinct
// from an unresolved MatchResult: "the service failed" and "nobody matched"
// must never collapse into the same value.
type MatchServiceError struct {
	Kind EntityKind
	Name string
	Err  error
}

func (e *MatchServiceError) Error() string {
	return fmt.Sprintf("match judgment for %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *MatchServiceError) Unwrap() error { return e.Err }
