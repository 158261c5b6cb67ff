package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

var (
	processKeywords string
	processWorkers  int
	processSave     bool
	processJSON     bool
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Segment a minutes file into speaker turns",
	Long: `Runs the segmentation pipeline on a minutes text file: normalises the
text, locates the roster/body boundary, splits the body into chapters
using the keyword file, and extracts ordered speaker turns from each
chapter.

With --save the document and its utterances are persisted; run
'sagebase resolve document' afterwards to link speakers to persons.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processKeywords, "keywords", "k", "", "keyword file path (default ~/.sagebase/keywords.toml)")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "concurrent chapter extractions (default 4)")
	processCmd.Flags().BoolVar(&processSave, "save", false, "persist the document and utterances")
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading minutes file: %w", err)
	}

	if err := initPipeline(processKeywords, processWorkers); err != nil {
		return err
	}
	defer closePipeline()

	doc := domain.NewRawDocument(uuid.New().String(), args[0], string(text))

	ctx := context.Background()
	result, err := processService.Process(ctx, doc)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	if processSave {
		if err := initStores(); err != nil {
			return err
		}
		if err := minutesStore.SaveDocument(ctx, result.Document); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
		if err := minutesStore.SaveUtterances(ctx, result.Utterances); err != nil {
			return fmt.Errorf("saving utterances: %w", err)
		}
	}

	if processJSON {
		return outputProcessJSON(cmd, result)
	}
	return outputProcessSummary(cmd, result)
}

func outputProcessJSON(cmd *cobra.Command, result domain.ProcessResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputProcessSummary(cmd *cobra.Command, result domain.ProcessResult) error {
	cmd.Printf("Document: %s\n", result.Document.ID)
	if result.Boundary.Found {
		cmd.Printf("Boundary: %q at offset %d\n", result.Boundary.Pattern, result.Boundary.Offset)
	} else {
		cmd.Println("Boundary: not found, whole document treated as body")
	}
	cmd.Printf("Chapters: %d, Utterances: %d\n", len(result.Chapters), len(result.Utterances))
	cmd.Println()

	for i := range result.Utterances {
		u := &result.Utterances[i]
		loc := fmt.Sprintf("%d", u.ChapterNumber)
		if u.SubChapterNumber != nil {
			loc = fmt.Sprintf("%d.%d", u.ChapterNumber, *u.SubChapterNumber)
		}
		cmd.Printf("  [%d] (ch %s) %s: %s\n", u.Sequence, loc, u.Speaker, truncate(u.Text, 60))
	}

	if len(result.Warnings) > 0 {
		cmd.Println()
		cmd.Printf("Warnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			cmd.Printf("  - %s\n", w.Message)
		}
	}

	if processSave {
		cmd.Println()
		cmd.Printf("Saved. Resolve speakers with: sagebase resolve document %s\n", result.Document.ID)
	}

	return nil
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
