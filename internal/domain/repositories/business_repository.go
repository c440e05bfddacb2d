package repositories

import (
	"context"

	"github.com/openlistings/directory/internal/domain/entities"
)

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	// Upsert inserts the business or, when a record with the same
	// provider ID exists, updates all mutable fields in place
	Upsert(ctx context.Context, business *entities.Business) error

	// GetBySlug retrieves a business by slug, falling back to a
	// case-insensitive match when no exact match exists
	GetBySlug(ctx context.Context, slug string) (*entities.Business, error)

	// ListByStateAndCategory retrieves candidate businesses in a state
	// whose primary category matches category case-insensitively OR whose
	// secondary categories contain secondaryForm exactly (the exact-case
	// secondary match is a load-bearing quirk, see the package tests).
	// Records missing either coordinate are excluded.
	ListByStateAndCategory(ctx context.Context, state, category, secondaryForm string) ([]*entities.Business, error)
}
