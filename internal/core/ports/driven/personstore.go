package driven

import (
	"context"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

// PersonStore supplies the canonical person pool for resolution and persists
// pool entries. The resolution core only reads from it; writes happen in the
// calling orchestration.
type PersonStore interface {
	// Save stores or updates a person.
	Save(ctx context.Context, person domain.Person) error

	// Get retrieves a person by ID.
	Get(ctx context.Context, id string) (domain.Person, error)

	// List returns all persons in stable insertion order.
	List(ctx context.Context) ([]domain.Person, error)

	// ListByAffiliation returns persons with the given affiliation, in
	// stable insertion order.
	ListByAffiliation(ctx context.Context, affiliation string) ([]domain.Person, error)

	// Delete removes a person.
	Delete(ctx context.Context, id string) error
}
