package providers

import (
	"github.com/openlistings/directory/internal/domain/entities"
)

// ReferenceDataProvider exposes the static category and location catalogs.
// Implementations load the datasets once and serve read-only snapshots,
// so lookups are safe for unlimited concurrent readers.
type ReferenceDataProvider interface {
	// Categories returns the full category catalog
	Categories() []*entities.Category

	// CategoryBySlug resolves a category by its URL slug, matching
	// case-insensitively. Returns a not-found error for unknown slugs.
	CategoryBySlug(slug string) (*entities.Category, error)

	// ResolveLocation resolves a city/state pair to its canonical record.
	// Matching is case-insensitive and tolerant of normalized city
	// spellings; state may be the abbreviation or the full name.
	// Returns a not-found error for unknown locations.
	ResolveLocation(city, state string) (*entities.LocationRecord, error)
}
