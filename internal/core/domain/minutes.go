package domain

import "time"

// RawDocument is the immutable input to the minutes pipeline: the full
// scraped text of one meeting's minutes. It is created once per processing
// request and never mutated.
type RawDocument struct {
	// ID is the unique identifier for this processing request.
	ID string

	// SourceID identifies where the text came from (scraper URL, file path).
	SourceID string

	// Text is the full raw document text.
	Text string

	// CreatedAt is when the document entered the pipeline.
	CreatedAt time.Time
}

// NewRawDocument creates a RawDocument. ID generation belongs to the caller
// so that domain stays free of external dependencies.
func NewRawDocument(id, sourceID, text string) RawDocument {
	return RawDocument{
		ID:        id,
		SourceID:  sourceID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// Boundary is the result of locating the split between the roster/attendee
// preamble and the utterance body. It is ephemeral: computed once per
// document and consumed by segmentation, never persisted.
type Boundary struct {
	// Found reports whether any marker matched.
	Found bool

	// Offset is the byte offset immediately after the matched marker.
	// Only meaningful when Found is true.
	Offset int

	// Pattern is the literal that matched (possibly a leading fragment of a
	// configured marker when Partial is true).
	Pattern string

	// Partial reports that only a leading fragment of a marker matched.
	Partial bool

	// Confidence is 1.0 for a full marker match, scaled down by the matched
	// fraction for partial matches, and 0 when nothing matched.
	Confidence float64

	// Reason explains the outcome, for logging and monitoring.
	Reason string
}

// ChapterKeyword is one entry of the ordered keyword list supplied by the
// upstream keyword provider. The keyword is the heading text that opens a
// chapter in the utterance body.
type ChapterKeyword struct {
	// ChapterNumber is the number the heading claims.
	ChapterNumber int

	// SubChapterNumber is set for sub-headings within a chapter.
	SubChapterNumber *int

	// Keyword is the heading text to locate.
	Keyword string
}

// Chapter is a contiguous, ordered span of utterance-body text.
type Chapter struct {
	// Number is the chapter number. Numbers must increase by exactly one in
	// document order; violations are reported, never silently reordered.
	Number int

	// SubNumber is the sub-chapter number, if any.
	SubNumber *int

	// Text is the chapter's raw text span.
	Text string

	// Start and End are byte offsets of the span within the utterance body.
	Start, End int
}

// WarningKind classifies degraded-mode events raised during segmentation.
type WarningKind string

const (
	// WarnBoundaryNotFound means no boundary marker matched and the whole
	// document was treated as utterance body.
	WarnBoundaryNotFound WarningKind = "boundary_not_found"

	// WarnBoundaryPartial means only a leading fragment of a boundary
	// marker matched, so the roster/body split point is uncertain.
	WarnBoundaryPartial WarningKind = "boundary_partial"

	// WarnPartialKeywordMatch means a chapter keyword only matched by its
	// leading fragment.
	WarnPartialKeywordMatch WarningKind = "partial_keyword_match"

	// WarnKeywordNotFound means a chapter keyword could not be located and
	// its span was skipped.
	WarnKeywordNotFound WarningKind = "keyword_not_found"

	// WarnNumberingViolation means chapter numbers did not increase by
	// exactly one in document order.
	WarnNumberingViolation WarningKind = "numbering_violation"
)

// SegmentWarning records a degraded-mode event. The upstream keyword source
// is inherently imperfect, so segmentation continues past these but must
// report every one.
type SegmentWarning struct {
	Kind          WarningKind
	ChapterNumber int
	Keyword       string
	Message       string
}

// Utterance is a single speaker turn extracted from a chapter. It is
// immutable after extraction except for ResolvedPersonID, which resolution
// fills in later.
type Utterance struct {
	// ID is the unique identifier for the utterance.
	ID string

	// DocumentID links back to the RawDocument.
	DocumentID string

	// ChapterNumber and SubChapterNumber locate the owning chapter.
	ChapterNumber    int
	SubChapterNumber *int

	// Speaker is the speaker name exactly as written in the minutes.
	Speaker string

	// Text is the utterance text.
	Text string

	// Order is the position within the owning chapter, starting at 1.
	Order int

	// Sequence is the position within the whole document, starting at 1.
	// Sequence reflects source document order regardless of which chapter
	// finished extraction first.
	Sequence int

	// ResolvedPersonID is the canonical person this speaker resolved to,
	// nil while unresolved.
	ResolvedPersonID *string
}

// ProcessResult is the output of running the full pipeline on one document.
type ProcessResult struct {
	Document   RawDocument
	Boundary   Boundary
	Chapters   []Chapter
	Utterances []Utterance
	Warnings   []SegmentWarning
}
