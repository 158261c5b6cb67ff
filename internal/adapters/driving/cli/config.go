package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trust-chain-organization/sagebase-sub000/internal/adapters/driven/ai"
	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration",
	Long: `View and configure the completion backend and resolution settings.

Use subcommands to change specific settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Configure the completion backend",
	Long:  `Interactively select the completion provider, model and credentials.`,
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := initSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Completion]")
	cmd.Printf("  Provider: %s\n", settings.Completion.Provider.Description())
	if settings.Completion.Model != "" {
		cmd.Printf("  Model: %s\n", settings.Completion.Model)
	} else {
		cmd.Printf("  Model: (provider default)\n")
	}
	if settings.Completion.Provider.IsLocal() && settings.Completion.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Completion.BaseURL)
	}
	if settings.Completion.Provider.RequiresAPIKey() {
		if settings.Completion.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Completion.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.Completion.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Resolution]")
	for _, kind := range []domain.EntityKind{domain.KindSpeaker, domain.KindPolitician} {
		policy := domain.PolicyFor(settings.Policies, kind)
		cmd.Printf("  %s: threshold %.2f, max candidates %d, fast-path %.2f\n",
			kind, policy.Threshold, policy.MaxCandidates, policy.FastPathConfidence)
	}
	cmd.Println()

	cmd.Println("[Segmentation]")
	cmd.Printf("  Boundary markers: %s\n", strings.Join(settings.BoundaryMarkers, ", "))
	cmd.Printf("  Honorifics: %s\n", strings.Join(settings.Honorifics, ", "))
	cmd.Printf("  Min partial keyword length: %d\n", settings.MinPartialKeywordLen)
	cmd.Println()

	if !settings.Completion.IsConfigured() {
		cmd.Println("Run 'sagebase config set' to configure the completion backend.")
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, _ []string) error {
	if err := initSettings(); err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Completion Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultCompletionModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			// Fall back to an already stored key so re-running the wizard
			// does not force re-entering credentials.
			if current, err := settingsService.Get(); err == nil {
				apiKey = current.Completion.APIKey
			}
		}
	}

	if err := settingsService.SetCompletionProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to save completion settings: %w", err)
	}

	// Validate by pinging the configured backend.
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to reload settings: %w", err)
	}
	cmd.Print("Validating configuration... ")
	if err := ai.ValidateCompletionConfig(&settings.Completion); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("completion configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Completion provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
