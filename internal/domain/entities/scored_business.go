package entities

// ResultType classifies how a ranked business matched the queried city
type ResultType string

const (
	// ResultTypeExact marks a business whose normalized city equals the query city
	ResultTypeExact ResultType = "exact"

	// ResultTypeNearby marks a business within the radius cutoff but not an
	// exact city match. The "related" bucket (ZIP overlap without a city
	// match) exists only in the aggregate counts, never per record.
	ResultTypeNearby ResultType = "nearby"
)

// ScoredBusiness is a Business annotated with per-query rank metadata.
// Values are computed per request and never persisted.
type ScoredBusiness struct {
	*Business
	DistanceKm     float64    `json:"distance_km"`
	Score          float64    `json:"score"`
	ExactCityMatch bool       `json:"exact_city_match"`
	InZipSet       bool       `json:"in_zip_set"`
	ResultType     ResultType `json:"result_type"`
}
