package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

// mockKeywordProvider implements driven.KeywordProvider for testing.
type mockKeywordProvider struct {
	keywords []domain.ChapterKeyword
	err      error
}

func (m *mockKeywordProvider) Keywords(context.Context) ([]domain.ChapterKeyword, error) {
	return m.keywords, m.err
}

func newTestProcessService(completion *mockCompletion, keywords []domain.ChapterKeyword) *ProcessService {
	return NewProcessService(
		NewBoundaryDetector(nil),
		NewChapterSegmenter(SegmenterConfig{}),
		NewUtteranceExtractor(completion, testRetryPolicy(), nil),
		&mockKeywordProvider{keywords: keywords},
	)
}

func TestProcessEndToEndOrdering(t *testing.T) {
	// Two chapters, one utterance each. The first chapter's extraction is
	// delayed so it finishes after the second: sequence numbers must still
	// follow document order.
	completion := &mockCompletion{
		respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "日程第一") {
				time.Sleep(20 * time.Millisecond)
				return `[{"speaker_name": "山田太郎君", "text": "一番目の発言。", "order": 1}]`, nil
			}
			return `[{"speaker_name": "佐藤一郎君", "text": "二番目の発言。", "order": 1}]`, nil
		},
	}
	s := newTestProcessService(completion, []domain.ChapterKeyword{
		{ChapterNumber: 1, Keyword: "日程第一"},
		{ChapterNumber: 2, Keyword: "日程第二"},
	})

	doc := domain.NewRawDocument("doc-1", "test",
		"出席議員　山田太郎　佐藤一郎｜境界｜日程第一　一般質問。日程第二　予算審議。")

	result, err := s.Process(context.Background(), doc)

	require.NoError(t, err)
	require.True(t, result.Boundary.Found)
	assert.False(t, result.Boundary.Partial)
	assert.Equal(t, "|境界|", result.Boundary.Pattern)
	require.Len(t, result.Chapters, 2)
	require.Len(t, result.Utterances, 2)

	assert.Equal(t, 1, result.Utterances[0].Sequence)
	assert.Equal(t, "山田太郎君", result.Utterances[0].Speaker)
	assert.Equal(t, 2, result.Utterances[1].Sequence)
	assert.Equal(t, "佐藤一郎君", result.Utterances[1].Speaker)
	assert.Empty(t, result.Warnings)
}

func TestProcessFullWidthBoundaryMarker(t *testing.T) {
	// The document carries the full-width ｜境界｜ divider while the text is
	// NFKC-normalised before detection. The marker must still produce a
	// full match and the roster preamble must not leak into chapter 1.
	completion := &mockCompletion{
		respond: func(string) (string, error) {
			return `[{"speaker_name": "山田太郎君", "text": "質問します。", "order": 1}]`, nil
		},
	}
	s := newTestProcessService(completion, []domain.ChapterKeyword{
		{ChapterNumber: 1, Keyword: "日程第一"},
	})
	doc := domain.NewRawDocument("doc-8", "test",
		"出席議員　山田太郎　佐藤一郎｜境界｜日程第一　一般質問。")

	result, err := s.Process(context.Background(), doc)

	require.NoError(t, err)
	require.True(t, result.Boundary.Found)
	assert.False(t, result.Boundary.Partial)
	assert.Equal(t, "|境界|", result.Boundary.Pattern)
	assert.Equal(t, 1.0, result.Boundary.Confidence)
	require.Len(t, result.Chapters, 1)
	assert.NotContains(t, result.Chapters[0].Text, "出席議員")
	assert.Empty(t, result.Warnings)
}

func TestProcessPartialBoundaryIsWarned(t *testing.T) {
	completion := &mockCompletion{
		respond: func(string) (string, error) { return "[]", nil },
	}
	s := newTestProcessService(completion, []domain.ChapterKeyword{
		{ChapterNumber: 1, Keyword: "日程第一"},
	})

	// Only a truncated heading separates roster and body: the fragment
	// match must be reported in the result, not just logged.
	doc := domain.NewRawDocument("doc-9", "test",
		"出席者一覧　本日の会議に付　日程第一　本文のみ。")

	result, err := s.Process(context.Background(), doc)

	require.NoError(t, err)
	require.True(t, result.Boundary.Found)
	assert.True(t, result.Boundary.Partial)

	var partialWarnings int
	for _, w := range result.Warnings {
		if w.Kind == domain.WarnBoundaryPartial {
			partialWarnings++
		}
	}
	assert.Equal(t, 1, partialWarnings, "the uncertain split point must be surfaced")
}

func TestProcessBoundaryMissIsDegradedMode(t *testing.T) {
	completion := &mockCompletion{
		respond: func(string) (string, error) { return "[]", nil },
	}
	s := newTestProcessService(completion, []domain.ChapterKeyword{
		{ChapterNumber: 1, Keyword: "日程第一"},
	})

	// No boundary marker, not even a leading fragment of one: the whole
	// document is treated as body.
	doc := domain.NewRawDocument("doc-2", "test", "日程第一　内容のみ。")

	result, err := s.Process(context.Background(), doc)

	require.NoError(t, err)
	require.Len(t, result.Chapters, 1)

	var boundaryWarnings int
	for _, w := range result.Warnings {
		if w.Kind == domain.WarnBoundaryNotFound {
			boundaryWarnings++
		}
	}
	assert.Equal(t, 1, boundaryWarnings, "the degraded-mode decision must be surfaced")
}

func TestProcessChapterFailureSurfaces(t *testing.T) {
	completion := &mockCompletion{
		respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "日程第二") {
				return "", errors.New("backend down")
			}
			return `[{"speaker_name": "議長", "text": "開会。", "order": 1}]`, nil
		},
	}
	s := newTestProcessService(completion, []domain.ChapterKeyword{
		{ChapterNumber: 1, Keyword: "日程第一"},
		{ChapterNumber: 2, Keyword: "日程第二"},
	})
	doc := domain.NewRawDocument("doc-3", "test", "｜境界｜日程第一　前半。日程第二　後半。")

	_, err := s.Process(context.Background(), doc)

	var extractErr *domain.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, 2, extractErr.ChapterNumber)
}

func TestProcessContinueOnChapterError(t *testing.T) {
	completion := &mockCompletion{
		respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "日程第二") {
				return "", errors.New("backend down")
			}
			return `[{"speaker_name": "議長", "text": "開会。", "order": 1}]`, nil
		},
	}
	s := newTestProcessService(completion, []domain.ChapterKeyword{
		{ChapterNumber: 1, Keyword: "日程第一"},
		{ChapterNumber: 2, Keyword: "日程第二"},
	})
	s.ContinueOnChapterError = true
	doc := domain.NewRawDocument("doc-4", "test", "｜境界｜日程第一　前半。日程第二　後半。")

	result, err := s.Process(context.Background(), doc)

	// The failure is still reported, but the healthy chapter's output is kept.
	require.Error(t, err)
	require.Len(t, result.Utterances, 1)
	assert.Equal(t, 1, result.Utterances[0].ChapterNumber)
	assert.Equal(t, 1, result.Utterances[0].Sequence)
}

func TestProcessNoKeywords(t *testing.T) {
	s := newTestProcessService(&mockCompletion{}, nil)

	_, err := s.Process(context.Background(), domain.NewRawDocument("doc-5", "test", "｜境界｜本文"))

	assert.ErrorIs(t, err, domain.ErrNoKeywords)
}

func TestProcessKeywordProviderFailure(t *testing.T) {
	s := NewProcessService(
		NewBoundaryDetector(nil),
		NewChapterSegmenter(SegmenterConfig{}),
		NewUtteranceExtractor(&mockCompletion{}, testRetryPolicy(), nil),
		&mockKeywordProvider{err: errors.New("upstream unavailable")},
	)

	_, err := s.Process(context.Background(), domain.NewRawDocument("doc-6", "test", "本文"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chapter keywords")
}

func TestProcessNormalizesBeforeSearch(t *testing.T) {
	completion := &mockCompletion{
		respond: func(string) (string, error) { return "[]", nil },
	}
	s := newTestProcessService(completion, []domain.ChapterKeyword{
		{ChapterNumber: 1, Keyword: "日程第1"},
	})

	// Full-width digits in the document, half-width in the keyword list.
	doc := domain.NewRawDocument("doc-7", "test", "｜境界｜日程第１　本文。")

	result, err := s.Process(context.Background(), doc)

	require.NoError(t, err)
	assert.Len(t, result.Chapters, 1)
}
