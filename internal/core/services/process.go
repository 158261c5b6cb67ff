package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driving"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
	"github.com/trust-chain-organization/sagebase-sub000/internal/textnorm"
)

// Ensure ProcessService implements the interface.
var _ driving.MinutesProcessor = (*ProcessService)(nil)

// defaultExtractWorkers bounds concurrent chapter extractions per document.
const defaultExtractWorkers = 4

// ProcessService runs the segmentation pipeline: normalisation, boundary
// detection, chaptering, and concurrent per-chapter utterance extraction.
// Utterance sequence numbers always reflect source document order, no
// matter which chapter finishes extraction first.
type ProcessService struct {
	boundary  *BoundaryDetector
	segmenter *ChapterSegmenter
	extractor *UtteranceExtractor
	keywords  driven.KeywordProvider
	workers   int

	// ContinueOnChapterError keeps processing the remaining chapters when
	// one fails hard. Failed chapters are still reported in the returned
	// error; they never become silent empty output.
	ContinueOnChapterError bool
}

// NewProcessService creates the pipeline service.
func NewProcessService(
	boundary *BoundaryDetector,
	segmenter *ChapterSegmenter,
	extractor *UtteranceExtractor,
	keywords driven.KeywordProvider,
) *ProcessService {
	return &ProcessService{
		boundary:  boundary,
		segmenter: segmenter,
		extractor: extractor,
		keywords:  keywords,
		workers:   defaultExtractWorkers,
	}
}

// SetWorkers overrides the extraction concurrency bound.
func (s *ProcessService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// Process segments doc into ordered utterances.
func (s *ProcessService) Process(ctx context.Context, doc domain.RawDocument) (domain.ProcessResult, error) {
	logger.Section("Minutes Processing")
	logger.Debug("document %s from %s (%d bytes)", doc.ID, doc.SourceID, len(doc.Text))

	result := domain.ProcessResult{Document: doc}

	text := textnorm.Normalize(doc.Text)

	result.Boundary = s.boundary.Detect(text)
	body := text
	if result.Boundary.Found {
		body = text[result.Boundary.Offset:]
		if result.Boundary.Partial {
			result.Warnings = append(result.Warnings, domain.SegmentWarning{
				Kind:    domain.WarnBoundaryPartial,
				Message: result.Boundary.Reason,
			})
		}
	} else {
		result.Warnings = append(result.Warnings, domain.SegmentWarning{
			Kind:    domain.WarnBoundaryNotFound,
			Message: result.Boundary.Reason,
		})
	}

	keywords, err := s.keywords.Keywords(ctx)
	if err != nil {
		return result, fmt.Errorf("loading chapter keywords: %w", err)
	}
	if len(keywords) == 0 {
		return result, domain.ErrNoKeywords
	}

	chapters, warnings := s.segmenter.Segment(body, keywords)
	result.Chapters = chapters
	result.Warnings = append(result.Warnings, warnings...)

	utterances, err := s.extractAll(ctx, doc, chapters)
	result.Utterances = utterances
	if err != nil && !s.ContinueOnChapterError {
		return result, err
	}
	if err != nil {
		logger.Error("process: some chapters failed extraction: %v", err)
	}
	return result, err
}

// extractAll runs chapter extraction on a bounded worker pool, then
// restores document order. Completion order is never trusted: the gathered
// results are re-sorted by chapter, sub-chapter, and in-chapter order
// before sequence numbers are assigned.
func (s *ProcessService) extractAll(ctx context.Context, doc domain.RawDocument, chapters []domain.Chapter) ([]domain.Utterance, error) {
	perChapter := make([][]domain.Utterance, len(chapters))
	errs := make([]error, len(chapters))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i := range chapters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			perChapter[i], errs[i] = s.extractor.Extract(ctx, doc, chapters[i])
		}(i)
	}
	wg.Wait()

	var utterances []domain.Utterance
	for i := range chapters {
		if errs[i] != nil {
			continue
		}
		utterances = append(utterances, perChapter[i]...)
	}

	sort.SliceStable(utterances, func(a, b int) bool {
		ua, ub := utterances[a], utterances[b]
		if ua.ChapterNumber != ub.ChapterNumber {
			return ua.ChapterNumber < ub.ChapterNumber
		}
		sa, sb := 0, 0
		if ua.SubChapterNumber != nil {
			sa = *ua.SubChapterNumber
		}
		if ub.SubChapterNumber != nil {
			sb = *ub.SubChapterNumber
		}
		if sa != sb {
			return sa < sb
		}
		return ua.Order < ub.Order
	})
	for i := range utterances {
		utterances[i].Sequence = i + 1
	}

	return utterances, errors.Join(errs...)
}
