// Package cli implements the sagebase command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trust-chain-organization/sagebase-sub000/internal/adapters/driven/ai"
	"github.com/trust-chain-organization/sagebase-sub000/internal/adapters/driven/config/file"
	"github.com/trust-chain-organization/sagebase-sub000/internal/adapters/driven/storage/sqlite"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driven"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driving"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/services"
	"github.com/trust-chain-organization/sagebase-sub000/internal/logger"
	"github.com/trust-chain-organization/sagebase-sub000/internal/retry"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sagebase",
	Short: "Segment council minutes and resolve speakers",
	Long: `Sagebase processes Japanese council meeting minutes: it splits a raw
document into chapters and speaker turns, then resolves the written
speaker names against a canonical person pool.

Run 'sagebase process' on a minutes file, then 'sagebase resolve' to
link speakers to persons.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Package-level services wired lazily per command. Commands that only touch
// configuration never open the database or ping the completion backend.
var (
	settingsService driving.SettingsService
	processService  driving.MinutesProcessor
	resolverService driving.SpeakerResolver
	personStore     driven.PersonStore
	minutesStore    driven.MinutesStore
	keywordProvider *file.KeywordProvider
)

// initSettings wires the config store and settings service.
func initSettings() error {
	if settingsService != nil {
		return nil
	}
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)
	return nil
}

// initStores opens the SQLite store and exposes its person and minutes views.
func initStores() error {
	if personStore != nil {
		return nil
	}
	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	personStore = store.PersonStore()
	minutesStore = store.MinutesStore()
	return nil
}

// initPipeline wires the full processing and resolution pipeline: completion
// backend, prompt store, keyword provider, segmentation and matching services.
// keywordPath overrides the default ~/.sagebase/keywords.toml when non-empty.
func initPipeline(keywordPath string, workers int) error {
	if processService != nil && resolverService != nil {
		return nil
	}
	if err := initSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	completion, err := ai.CreateAndValidateCompletionService(&settings.Completion)
	if err != nil {
		return err
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	keywordProvider, err = file.NewKeywordProvider(keywordPath)
	if err != nil {
		return fmt.Errorf("opening keyword file: %w", err)
	}

	policy := retry.DefaultPolicy
	limiter := retry.NewLimiter(retry.DefaultLimiterConfig)

	extractor := services.NewUtteranceExtractor(completion, policy, limiter)
	extractor.SetPromptStore(promptStore)

	boundary := services.NewBoundaryDetector(settings.BoundaryMarkers)
	segmenter := services.NewChapterSegmenter(services.SegmenterConfig{
		MinPartialLen: settings.MinPartialKeywordLen,
	})
	process := services.NewProcessService(boundary, segmenter, extractor, keywordProvider)
	process.SetWorkers(workers)
	processService = process

	matcher := services.NewProbabilisticMatcher(completion, policy, limiter)
	matcher.SetPromptStore(promptStore)

	fastPathConfidence := settings.Policies[domain.KindSpeaker].FastPathConfidence
	fastPath := services.NewFastPathMatcher(settings.Honorifics, fastPathConfidence)
	selector := services.NewCandidateSelector(settings.Honorifics)
	resolverService = services.NewResolver(fastPath, selector, matcher, settings.Policies)

	return nil
}

// closePipeline releases the keyword watcher. Safe to call unconditionally.
func closePipeline() {
	if keywordProvider != nil {
		keywordProvider.Close() //nolint:errcheck // Best-effort cleanup
		keywordProvider = nil
	}
}
