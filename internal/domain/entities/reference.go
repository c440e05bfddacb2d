package entities

// Category is one entry of the static category catalog
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LocationRecord is one entry of the static location catalog.
// Records are immutable and loaded once per process lifetime.
type LocationRecord struct {
	City      string   `json:"city"`
	State     string   `json:"state"`
	StateAbbr string   `json:"state_abbr"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	ZipCodes  []string `json:"zip_codes"`
}

// ZipSet returns the location's ZIP codes as a membership set
func (l *LocationRecord) ZipSet() map[string]struct{} {
	set := make(map[string]struct{}, len(l.ZipCodes))
	for _, zip := range l.ZipCodes {
		set[zip] = struct{}{}
	}
	return set
}
