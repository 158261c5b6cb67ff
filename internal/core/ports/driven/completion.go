// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// CompletionService is the opaque text-completion collaborator behind every
// language-model judgment in the pipeline: utterance extraction and
// candidate-match judgment. The core depends only on this contract, never on
// a specific vendor.
//
// Implementations may include:
//   - OpenAI (GPT-4, GPT-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type CompletionService interface {
	// Complete produces a text completion for a prompt.
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before processing begins.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompletionOptions configures a single completion request.
type CompletionOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
