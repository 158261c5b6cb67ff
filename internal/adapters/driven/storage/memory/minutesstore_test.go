package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

func testUtterance(id, docID string, sequence int) domain.Utterance {
	return domain.Utterance{
		ID:            id,
		DocumentID:    docID,
		ChapterNumber: 1,
		Speaker:       "山田太郎君",
		Text:          "発言です。",
		Order:         sequence,
		Sequence:      sequence,
	}
}

func TestMinutesStore_SaveDocument(t *testing.T) {
	store := NewMinutesStore()
	ctx := context.Background()

	doc := domain.RawDocument{
		ID:        "d1",
		SourceID:  "council-42",
		Text:      "本日の会議に付した事件",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestMinutesStore_SaveDocument_EmptyID(t *testing.T) {
	store := NewMinutesStore()

	err := store.SaveDocument(context.Background(), domain.RawDocument{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMinutesStore_GetDocument_NotFound(t *testing.T) {
	store := NewMinutesStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMinutesStore_SaveAndListUtterances(t *testing.T) {
	store := NewMinutesStore()
	ctx := context.Background()

	// Stored out of order; listing restores sequence order
	require.NoError(t, store.SaveUtterances(ctx, []domain.Utterance{
		testUtterance("u3", "d1", 3),
		testUtterance("u1", "d1", 1),
		testUtterance("u2", "d1", 2),
		testUtterance("ux", "d2", 1),
	}))

	got, err := store.ListUtterances(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "u1", got[0].ID)
	assert.Equal(t, "u2", got[1].ID)
	assert.Equal(t, "u3", got[2].ID)
}

func TestMinutesStore_SaveUtterances_EmptyID(t *testing.T) {
	store := NewMinutesStore()

	err := store.SaveUtterances(context.Background(), []domain.Utterance{
		{DocumentID: "d1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMinutesStore_ApplyResolution(t *testing.T) {
	store := NewMinutesStore()
	ctx := context.Background()

	require.NoError(t, store.SaveUtterances(ctx, []domain.Utterance{
		testUtterance("u1", "d1", 1),
	}))

	result := domain.MatchResult{
		Matched:    true,
		PersonID:   "p1",
		Confidence: 0.95,
		Source:     domain.MatchSourceFastPath,
	}
	require.NoError(t, store.ApplyResolution(ctx, "u1", result))

	got, err := store.ListUtterances(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].ResolvedPersonID)
	assert.Equal(t, "p1", *got[0].ResolvedPersonID)
}

func TestMinutesStore_ApplyResolution_Idempotent(t *testing.T) {
	store := NewMinutesStore()
	ctx := context.Background()

	require.NoError(t, store.SaveUtterances(ctx, []domain.Utterance{
		testUtterance("u1", "d1", 1),
	}))

	result := domain.MatchResult{Matched: true, PersonID: "p1", Confidence: 0.95}
	require.NoError(t, store.ApplyResolution(ctx, "u1", result))
	require.NoError(t, store.ApplyResolution(ctx, "u1", result))

	got, err := store.ListUtterances(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got[0].ResolvedPersonID)
	assert.Equal(t, "p1", *got[0].ResolvedPersonID)
}

func TestMinutesStore_ApplyResolution_Unmatched(t *testing.T) {
	store := NewMinutesStore()
	ctx := context.Background()

	require.NoError(t, store.SaveUtterances(ctx, []domain.Utterance{
		testUtterance("u1", "d1", 1),
	}))

	require.NoError(t, store.ApplyResolution(ctx, "u1", domain.MatchResult{Matched: false}))

	got, err := store.ListUtterances(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, got[0].ResolvedPersonID)
}

func TestMinutesStore_ApplyResolution_UnknownUtterance(t *testing.T) {
	store := NewMinutesStore()

	err := store.ApplyResolution(context.Background(), "missing", domain.MatchResult{
		Matched:  true,
		PersonID: "p1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMinutesStore_ListUtterances_EmptyDocument(t *testing.T) {
	store := NewMinutesStore()

	got, err := store.ListUtterances(context.Background(), "d1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
