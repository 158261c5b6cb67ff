package services

import (
	"fmt"
	"strings"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
	"github.com/trust-chain-organization/sagebase-sub000/internal/textnorm"
)

// BoundaryDetector locates the split between the roster/attendee preamble
// and the utterance body of a minutes document. Detection is total and
// deterministic: the same input always yields the same Boundary and no
// input can make it fail.
type BoundaryDetector struct {
	markers []string
}

// NewBoundaryDetector creates a detector for the given marker literals in
// priority order. An empty list falls back to domain.DefaultBoundaryMarkers.
// Markers are stored in normalised form so they match the normalised text
// Detect receives: NFKC folds full-width punctuation (｜境界｜ → |境界|),
// and a raw marker literal would otherwise never match.
func NewBoundaryDetector(markers []string) *BoundaryDetector {
	if len(markers) == 0 {
		markers = domain.DefaultBoundaryMarkers
	}
	normalised := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = textnorm.Normalize(m); m != "" {
			normalised = append(normalised, m)
		}
	}
	return &BoundaryDetector{markers: normalised}
}

// Detect searches text for the first boundary marker. The first pattern in
// priority order that occurs anywhere wins; within a pattern the leftmost
// occurrence wins. When no full marker matches, Detect degrades to a
// progressive partial match: for each pattern in priority order it tries
// successively shorter leading fragments, down to a single rune, and accepts
// the first hit. Text is expected to already be in normalised form.
func (d *BoundaryDetector) Detect(text string) domain.Boundary {
	for _, marker := range d.markers {
		if idx := strings.Index(text, marker); idx >= 0 {
			return domain.Boundary{
				Found:      true,
				Offset:     idx + len(marker),
				Pattern:    marker,
				Confidence: 1.0,
				Reason:     fmt.Sprintf("marker %q matched", marker),
			}
		}
	}

	// Partial fallback. Scraped documents often truncate or garble the
	// marker, so a leading fragment is still a usable signal.
	for _, marker := range d.markers {
		runes := []rune(marker)
		for l := len(runes) - 1; l >= 1; l-- {
			fragment := string(runes[:l])
			idx := strings.Index(text, fragment)
			if idx < 0 {
				continue
			}
			confidence := float64(l) / float64(len(runes))
			logger.Warn("boundary: only fragment %q of marker %q matched (confidence %.2f)",
				fragment, marker, confidence)
			return domain.Boundary{
				Found:      true,
				Offset:     idx + len(fragment),
				Pattern:    fragment,
				Partial:    true,
				Confidence: confidence,
				Reason:     fmt.Sprintf("partial match: fragment %q of marker %q", fragment, marker),
			}
		}
	}

	// No marker at all. The caller treats the whole document as utterance
	// body; that decision must be visible to monitoring, not silent.
	logger.Warn("boundary: no marker matched, treating entire document as utterance body")
	return domain.Boundary{
		Found:  false,
		Reason: "no boundary marker matched",
	}
}
