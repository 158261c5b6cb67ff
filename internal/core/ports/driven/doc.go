// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CompletionService: The text-completion collaborator behind extraction
//     and probabilistic match judgment
//   - PersonStore: Canonical person pool (read-only for the core)
//   - MinutesStore: Persistence of documents, utterances, and applied results
//   - KeywordProvider: Ordered chapter keyword list from upstream
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: User-customisable prompt templates. Without it, services
//     fall back to embedded defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
