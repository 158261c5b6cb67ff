// Package domain defines the core business entities for sagebase.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: The full scraped text of one meeting's minutes
//   - Boundary: The roster/utterance-body split point
//   - Chapter: An ordered span of utterance-body text
//   - Utterance: A single speaker turn with document-order sequence
//   - Person: A canonical identity owned by the persistence collaborator
//   - MatchResult: The decision output of one resolution request
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
