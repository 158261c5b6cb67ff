package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
)

// Ensure KeywordProvider implements the interface.
var _ driven.KeywordProvider = (*KeywordProvider)(nil)

// KeywordProvider loads chapter keywords from a user-editable TOML file
// and reloads them when the file changes on disk.
//
// File format:
//
//	[[keyword]]
//	chapter = 1
//	keyword = "日程第一"
//
//	[[keyword]]
//	chapter = 1
//	sub_chapter = 2
//	keyword = "日程第一の二"
type KeywordProvider struct {
	mu       sync.RWMutex
	filePath string
	keywords []domain.ChapterKeyword
	loadErr  error

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// keywordFile is the on-disk TOML structure.
type keywordFile struct {
	Keyword []keywordEntry `toml:"keyword"`
}

// keywordEntry is one keyword record in the TOML file.
type keywordEntry struct {
	Chapter    int    `toml:"chapter"`
	SubChapter *int   `toml:"sub_chapter"`
	Keyword    string `toml:"keyword"`
}

// NewKeywordProvider creates a file-based keyword provider.
// If path is empty, defaults to ~/.sagebase/keywords.toml.
// The file is loaded immediately and watched for changes until Close.
func NewKeywordProvider(path string) (*KeywordProvider, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".sagebase", "keywords.toml")
	}

	p := &KeywordProvider{
		filePath: path,
		done:     make(chan struct{}),
	}
	p.reload()

	// Watch the parent directory, not the file: editors replace files via
	// rename, which drops a direct file watch.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create keyword watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch keyword directory: %w", err)
	}
	p.watcher = watcher

	go p.watch()

	return p, nil
}

// Keywords returns the current chapter keyword list.
// Returns ErrNoKeywords if the file is missing or defines no entries.
func (p *KeywordProvider) Keywords(ctx context.Context) ([]domain.ChapterKeyword, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.loadErr != nil {
		return nil, p.loadErr
	}
	if len(p.keywords) == 0 {
		return nil, fmt.Errorf("%w: %s defines no keywords", domain.ErrNoKeywords, p.filePath)
	}

	out := make([]domain.ChapterKeyword, len(p.keywords))
	copy(out, p.keywords)
	return out, nil
}

// Path returns the keyword file path.
func (p *KeywordProvider) Path() string {
	return p.filePath
}

// Close stops watching the keyword file.
func (p *KeywordProvider) Close() error {
	close(p.done)
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}

// watch reloads the keyword list whenever the file is rewritten.
func (p *KeywordProvider) watch() {
	for {
		select {
		case <-p.done:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.filePath) {
				continue
			}
			// Chmod carries no content change.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("Keyword file changed (%s), reloading", event.Op)
			p.reload()
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Keyword watcher error: %v", err)
		}
	}
}

// reload reads and parses the keyword file, replacing the cached list.
func (p *KeywordProvider) reload() {
	keywords, err := loadKeywordFile(p.filePath)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.keywords = keywords
	p.loadErr = err
}

// loadKeywordFile parses a keyword TOML file.
func loadKeywordFile(path string) ([]domain.ChapterKeyword, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: keyword file %s not found", domain.ErrNoKeywords, path)
		}
		return nil, fmt.Errorf("read keyword file: %w", err)
	}

	var parsed keywordFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse keyword file %s: %w", path, err)
	}

	keywords := make([]domain.ChapterKeyword, 0, len(parsed.Keyword))
	for i, entry := range parsed.Keyword {
		if entry.Chapter < 1 {
			return nil, fmt.Errorf("%w: keyword entry %d has chapter %d, want >= 1",
				domain.ErrInvalidInput, i+1, entry.Chapter)
		}
		if entry.Keyword == "" {
			return nil, fmt.Errorf("%w: keyword entry %d has empty keyword",
				domain.ErrInvalidInput, i+1)
		}
		if entry.SubChapter != nil && *entry.SubChapter < 1 {
			return nil, fmt.Errorf("%w: keyword entry %d has sub_chapter %d, want >= 1",
				domain.ErrInvalidInput, i+1, *entry.SubChapter)
		}
		keywords = append(keywords, domain.ChapterKeyword{
			ChapterNumber:    entry.Chapter,
			SubChapterNumber: entry.SubChapter,
			Keyword:          entry.Keyword,
		})
	}

	return keywords, nil
}
