package entities

import "time"

// FetchKey is the composite key recording one sourced provider query.
// City carries the shared normalized city form and State the uppercase
// two-letter abbreviation; adapters never see unnormalized keys.
type FetchKey struct {
	Category string
	City     string
	State    string
}

// FetchLedgerEntry records when a (category, city, state) triple was
// last sourced from the external provider
type FetchLedgerEntry struct {
	FetchKey
	FetchedAt time.Time
}
