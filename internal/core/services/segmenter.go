package services

import (
	"fmt"
	"strings"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
	"github.com/trust-chain-organization/sagebase-sub000/internal/textnorm"
)

// SegmenterConfig holds chaptering configuration.
type SegmenterConfig struct {
	// MinPartialLen is the minimum keyword length, in runes, at which the
	// leading-fragment fallback kicks in, and the fragment length it uses.
	MinPartialLen int
}

// ChapterSegmenter divides the utterance body into ordered chapters using
// the keyword list supplied by the upstream provider. The provider is
// imperfect, so segmentation is lenient but observable: a keyword that
// cannot be found produces a warning and is skipped, never a silent drop
// and never an abort.
type ChapterSegmenter struct {
	cfg SegmenterConfig
}

// NewChapterSegmenter creates a segmenter, applying defaults for zero config.
func NewChapterSegmenter(cfg SegmenterConfig) *ChapterSegmenter {
	if cfg.MinPartialLen <= 0 {
		cfg.MinPartialLen = domain.DefaultMinPartialKeywordLen
	}
	return &ChapterSegmenter{cfg: cfg}
}

// keywordMark is a located keyword occurrence.
type keywordMark struct {
	kw    domain.ChapterKeyword
	start int // byte offset of the matched literal
	end   int // byte offset just past the matched literal
}

// Segment locates each keyword in order, advancing a monotonic cursor so the
// produced chapters are ordered and non-overlapping. Chapter spans cover the
// input completely: each chapter runs from its keyword to the next located
// keyword, and any text before the first located keyword is folded into the
// first chapter, so concatenating all spans reconstructs the input.
func (s *ChapterSegmenter) Segment(text string, keywords []domain.ChapterKeyword) ([]domain.Chapter, []domain.SegmentWarning) {
	var warnings []domain.SegmentWarning
	var marks []keywordMark

	cursor := 0
	for _, kw := range keywords {
		normKw := textnorm.Normalize(kw.Keyword)
		if normKw == "" {
			continue
		}

		start, end, partial := s.locate(text, cursor, normKw)
		if start < 0 {
			logger.Warn("segment: keyword %q (chapter %d) not found, span skipped", kw.Keyword, kw.ChapterNumber)
			warnings = append(warnings, domain.SegmentWarning{
				Kind:          domain.WarnKeywordNotFound,
				ChapterNumber: kw.ChapterNumber,
				Keyword:       kw.Keyword,
				Message:       fmt.Sprintf("keyword %q not found after offset %d", kw.Keyword, cursor),
			})
			continue
		}
		if partial {
			logger.Warn("segment: keyword %q (chapter %d) matched only by its leading fragment", kw.Keyword, kw.ChapterNumber)
			warnings = append(warnings, domain.SegmentWarning{
				Kind:          domain.WarnPartialKeywordMatch,
				ChapterNumber: kw.ChapterNumber,
				Keyword:       kw.Keyword,
				Message:       fmt.Sprintf("keyword %q matched by leading fragment only", kw.Keyword),
			})
		}

		marks = append(marks, keywordMark{kw: kw, start: start, end: end})
		cursor = end
	}

	chapters := buildChapters(text, marks)
	warnings = append(warnings, validateNumbering(chapters)...)
	return chapters, warnings
}

// locate finds kw in text at or after from, falling back to the leading
// fragment for long keywords. Returns (-1, -1, false) when nothing matches.
func (s *ChapterSegmenter) locate(text string, from int, kw string) (start, end int, partial bool) {
	if idx := strings.Index(text[from:], kw); idx >= 0 {
		return from + idx, from + idx + len(kw), false
	}

	runes := []rune(kw)
	if len(runes) <= s.cfg.MinPartialLen {
		return -1, -1, false
	}

	fragment := string(runes[:s.cfg.MinPartialLen])
	if idx := strings.Index(text[from:], fragment); idx >= 0 {
		return from + idx, from + idx + len(fragment), true
	}
	return -1, -1, false
}

// buildChapters converts located keyword marks into covering text spans.
func buildChapters(text string, marks []keywordMark) []domain.Chapter {
	if len(marks) == 0 {
		return nil
	}

	chapters := make([]domain.Chapter, 0, len(marks))
	for i, m := range marks {
		start := m.start
		if i == 0 {
			start = 0
		}
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		chapters = append(chapters, domain.Chapter{
			Number:    m.kw.ChapterNumber,
			SubNumber: m.kw.SubChapterNumber,
			Text:      text[start:end],
			Start:     start,
			End:       end,
		})
	}
	return chapters
}

// validateNumbering checks that chapter numbers increase by exactly one in
// document order, with sub-chapters counting up within their chapter.
// Violations are warnings: one bad heading must not destroy the document.
func validateNumbering(chapters []domain.Chapter) []domain.SegmentWarning {
	var warnings []domain.SegmentWarning

	lastTop := 0
	lastSub := 0
	for _, ch := range chapters {
		switch {
		case ch.SubNumber == nil:
			if ch.Number != lastTop+1 {
				warnings = append(warnings, numberingWarning(ch, lastTop+1))
			}
			lastTop = ch.Number
			lastSub = 0
		default:
			if ch.Number != lastTop || *ch.SubNumber != lastSub+1 {
				warnings = append(warnings, numberingWarning(ch, lastSub+1))
			}
			lastTop = ch.Number
			lastSub = *ch.SubNumber
		}
	}
	return warnings
}

func numberingWarning(ch domain.Chapter, want int) domain.SegmentWarning {
	msg := fmt.Sprintf("chapter %d out of order, expected %d", ch.Number, want)
	if ch.SubNumber != nil {
		msg = fmt.Sprintf("sub-chapter %d.%d out of order, expected sub %d", ch.Number, *ch.SubNumber, want)
	}
	logger.Warn("segment: %s", msg)
	return domain.SegmentWarning{
		Kind:          domain.WarnNumberingViolation,
		ChapterNumber: ch.Number,
		Message:       msg,
	}
}
