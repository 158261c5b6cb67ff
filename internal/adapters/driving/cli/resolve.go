package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/ports/driving"
)

var (
	resolveKind        string
	resolveAffiliation string
	resolveJSON        bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve speaker names against the person pool",
	Long: `Resolves written names to canonical persons. The pool is the person
table managed with 'sagebase person'.

Use 'resolve name' for a single name, or 'resolve document' to resolve
every speaker of a previously processed document and record the results.`,
}

var resolveNameCmd = &cobra.Command{
	Use:   "name [name]",
	Short: "Resolve a single name",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolveName,
}

var resolveDocumentCmd = &cobra.Command{
	Use:   "document [doc-id]",
	Short: "Resolve all speakers of a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolveDocument,
}

func init() {
	resolveCmd.PersistentFlags().StringVarP(&resolveKind, "kind", "k", "speaker", "entity kind: speaker or politician")
	resolveCmd.PersistentFlags().StringVarP(&resolveAffiliation, "affiliation", "a", "", "affiliation context for priority candidates")
	resolveCmd.PersistentFlags().BoolVar(&resolveJSON, "json", false, "output results as JSON")

	resolveCmd.AddCommand(resolveNameCmd)
	resolveCmd.AddCommand(resolveDocumentCmd)
	rootCmd.AddCommand(resolveCmd)
}

func parseEntityKind(s string) (domain.EntityKind, error) {
	kind := domain.EntityKind(s)
	switch kind {
	case domain.KindSpeaker, domain.KindPolitician:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q (use speaker or politician)", s)
	}
}

func runResolveName(cmd *cobra.Command, args []string) error {
	kind, err := parseEntityKind(resolveKind)
	if err != nil {
		return err
	}

	if err := initStores(); err != nil {
		return err
	}
	if err := initPipeline("", 0); err != nil {
		return err
	}
	defer closePipeline()

	ctx := context.Background()
	pool, err := personStore.List(ctx)
	if err != nil {
		return fmt.Errorf("loading person pool: %w", err)
	}

	result, err := resolverService.Resolve(ctx, driving.ResolveRequest{
		Name:        args[0],
		Kind:        kind,
		Affiliation: resolveAffiliation,
		Pool:        pool,
	})
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if resolveJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printMatchResult(cmd, args[0], result, pool)
	return nil
}

func runResolveDocument(cmd *cobra.Command, args []string) error {
	kind, err := parseEntityKind(resolveKind)
	if err != nil {
		return err
	}

	if err := initStores(); err != nil {
		return err
	}
	if err := initPipeline("", 0); err != nil {
		return err
	}
	defer closePipeline()

	ctx := context.Background()
	utterances, err := minutesStore.ListUtterances(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading utterances: %w", err)
	}
	if len(utterances) == 0 {
		return errors.New("document has no stored utterances; run 'sagebase process --save' first")
	}

	pool, err := personStore.List(ctx)
	if err != nil {
		return fmt.Errorf("loading person pool: %w", err)
	}

	resolved, results, err := resolverService.ResolveAll(ctx, utterances, driving.ResolveRequest{
		Kind:        kind,
		Affiliation: resolveAffiliation,
		Pool:        pool,
	})
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	matched := 0
	for i := range resolved {
		if err := minutesStore.ApplyResolution(ctx, resolved[i].ID, results[i]); err != nil {
			return fmt.Errorf("recording resolution for utterance %s: %w", resolved[i].ID, err)
		}
		if results[i].Matched {
			matched++
		}
	}

	if resolveJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i := range resolved {
		printMatchResult(cmd, resolved[i].Speaker, results[i], pool)
	}
	cmd.Println()
	cmd.Printf("Resolved %d of %d speakers.\n", matched, len(resolved))
	return nil
}

func printMatchResult(cmd *cobra.Command, name string, result domain.MatchResult, pool []domain.Person) {
	if !result.Matched {
		cmd.Printf("  %s: no match (%s)\n", name, result.Reason)
		return
	}

	display := result.PersonID
	for i := range pool {
		if pool[i].ID == result.PersonID {
			display = pool[i].Name
			break
		}
	}
	cmd.Printf("  %s -> %s (%.2f, %s)\n", name, display, result.Confidence, result.Source)
}
