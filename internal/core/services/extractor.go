package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
	"github.com/trust-chain-organization/sagebase-sub000/internal/retry"
)

// defaultExtractPrompt is the fallback prompt when no PromptStore is configured.
const defaultExtractPrompt = `以下は会議録の一部です。発言を順番に抽出してください。
Return ONLY a JSON array. Each element must be an object with keys
"speaker_name" (the name exactly as written, including honorifics),
"text" (the utterance text), and "order" (1-based position in this text).
Do not invent utterances. If the text contains none, return [].

Text:
%s`

// utteranceRecord is the structured-output contract for one extracted turn.
type utteranceRecord struct {
	SpeakerName string `json:"speaker_name"`
	Text        string `json:"text"`
	Order       int    `json:"order"`
}

// UtteranceExtractor converts one chapter's raw text into ordered
// utterances via the completion service. It never fabricates output: a
// failed or malformed service response is an ExtractionError for that
// chapter, and the caller decides whether to skip, retry, or abort.
type UtteranceExtractor struct {
	completion  driven.CompletionService
	promptStore driven.PromptStore
	policy      retry.Policy
	limiter     *retry.Limiter
}

// NewUtteranceExtractor creates an extractor. The limiter may be nil.
func NewUtteranceExtractor(completion driven.CompletionService, policy retry.Policy, limiter *retry.Limiter) *UtteranceExtractor {
	return &UtteranceExtractor{
		completion: completion,
		policy:     policy,
		limiter:    limiter,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (e *UtteranceExtractor) SetPromptStore(store driven.PromptStore) {
	e.promptStore = store
}

// Extract returns chapter's utterances in order. Transient service failures
// are retried per the configured policy before the chapter is failed.
func (e *UtteranceExtractor) Extract(ctx context.Context, doc domain.RawDocument, chapter domain.Chapter) ([]domain.Utterance, error) {
	if e.completion == nil {
		return nil, e.fail(chapter, domain.ErrCompletionUnavailable)
	}

	template := loadPrompt(e.promptStore, driven.PromptExtractUtterances, defaultExtractPrompt)
	prompt := fmt.Sprintf(template, chapter.Text)

	var records []utteranceRecord
	err := e.policy.Do(ctx, func(ctx context.Context) error {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
		raw, err := e.completion.Complete(ctx, prompt, driven.CompletionOptions{
			MaxTokens:   4096,
			Temperature: 0.0,
		})
		if err != nil {
			return fmt.Errorf("completion request: %w", err)
		}

		parsed, err := parseUtteranceRecords(raw)
		if err != nil {
			// Malformed output is worth one more try at temperature 0,
			// but a permanently confused model must not loop forever.
			return err
		}
		records = parsed
		return nil
	})
	if err != nil {
		return nil, e.fail(chapter, err)
	}

	utterances := make([]domain.Utterance, 0, len(records))
	for i, rec := range records {
		order := rec.Order
		if order <= 0 {
			order = i + 1
		}
		utterances = append(utterances, domain.Utterance{
			ID:               uuid.NewString(),
			DocumentID:       doc.ID,
			ChapterNumber:    chapter.Number,
			SubChapterNumber: chapter.SubNumber,
			Speaker:          rec.SpeakerName,
			Text:             rec.Text,
			Order:            order,
		})
	}

	logger.Debug("extract: chapter %d yielded %d utterances", chapter.Number, len(utterances))
	return utterances, nil
}

// fail wraps err as a chapter-level extraction failure.
func (e *UtteranceExtractor) fail(chapter domain.Chapter, err error) error {
	return &domain.ExtractionError{
		ChapterNumber:    chapter.Number,
		SubChapterNumber: chapter.SubNumber,
		Err:              err,
	}
}

// parseUtteranceRecords decodes and validates the service's JSON output.
func parseUtteranceRecords(raw string) ([]utteranceRecord, error) {
	block, err := jsonArrayBlock(raw)
	if err != nil {
		return nil, err
	}

	var records []utteranceRecord
	if err := json.Unmarshal([]byte(block), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	for i, rec := range records {
		if strings.TrimSpace(rec.SpeakerName) == "" || strings.TrimSpace(rec.Text) == "" {
			return nil, fmt.Errorf("%w: record %d missing speaker_name or text",
				domain.ErrMalformedResponse, i)
		}
	}
	return records, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
