package repositories

import (
	"context"

	"github.com/openlistings/directory/internal/domain/entities"
)

// FetchLedger records which (category, city, state) triples have already
// been sourced from the external provider, so paid lookups are not repeated
type FetchLedger interface {
	// HasFetched reports whether the triple has a live ledger entry
	HasFetched(ctx context.Context, key entities.FetchKey) (bool, error)

	// MarkFetched upserts the ledger entry for the triple (idempotent)
	MarkFetched(ctx context.Context, key entities.FetchKey) error
}
