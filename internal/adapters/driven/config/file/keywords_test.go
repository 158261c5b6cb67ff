package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
)

func TestKeywordProvider_ImplementsInterface(t *testing.T) {
	var _ driven.KeywordProvider = (*KeywordProvider)(nil)
}

func writeKeywordFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestKeywordProvider_LoadsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, `
[[keyword]]
chapter = 1
keyword = "日程第一"

[[keyword]]
chapter = 1
sub_chapter = 2
keyword = "日程第一の二"

[[keyword]]
chapter = 2
keyword = "日程第二"
`)

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	keywords, err := provider.Keywords(context.Background())
	require.NoError(t, err)
	require.Len(t, keywords, 3)

	assert.Equal(t, 1, keywords[0].ChapterNumber)
	assert.Nil(t, keywords[0].SubChapterNumber)
	assert.Equal(t, "日程第一", keywords[0].Keyword)

	require.NotNil(t, keywords[1].SubChapterNumber)
	assert.Equal(t, 2, *keywords[1].SubChapterNumber)

	assert.Equal(t, 2, keywords[2].ChapterNumber)
}

func TestKeywordProvider_MissingFileReportsNoKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	_, err = provider.Keywords(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoKeywords)
}

func TestKeywordProvider_EmptyFileReportsNoKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, "")

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	_, err = provider.Keywords(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoKeywords)
}

func TestKeywordProvider_InvalidEntryRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, `
[[keyword]]
chapter = 0
keyword = "日程第一"
`)

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	_, err = provider.Keywords(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKeywordProvider_EmptyKeywordRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, `
[[keyword]]
chapter = 1
keyword = ""
`)

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	_, err = provider.Keywords(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKeywordProvider_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, `
[[keyword]]
chapter = 1
keyword = "日程第一"
`)

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	keywords, err := provider.Keywords(context.Background())
	require.NoError(t, err)
	require.Len(t, keywords, 1)

	writeKeywordFile(t, path, `
[[keyword]]
chapter = 1
keyword = "日程第一"

[[keyword]]
chapter = 2
keyword = "日程第二"
`)

	// The watcher delivers the change asynchronously
	assert.Eventually(t, func() bool {
		keywords, err := provider.Keywords(context.Background())
		return err == nil && len(keywords) == 2
	}, 3*time.Second, 20*time.Millisecond)
}

func TestKeywordProvider_ReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, `
[[keyword]]
chapter = 1
keyword = "日程第一"
`)

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	first, err := provider.Keywords(context.Background())
	require.NoError(t, err)
	first[0].Keyword = "mutated"

	second, err := provider.Keywords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "日程第一", second[0].Keyword)
}

func TestKeywordProvider_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, `
[[keyword]]
chapter = 1
keyword = "日程第一"
`)

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)
	defer provider.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = provider.Keywords(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeywordProvider_CloseStopsWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.toml")
	writeKeywordFile(t, path, `
[[keyword]]
chapter = 1
keyword = "日程第一"
`)

	provider, err := NewKeywordProvider(path)
	require.NoError(t, err)

	require.NoError(t, provider.Close())

	// Keywords loaded before Close stay readable
	keywords, err := provider.Keywords(context.Background())
	require.NoError(t, err)
	assert.Len(t, keywords, 1)
}
