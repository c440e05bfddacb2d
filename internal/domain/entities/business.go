package entities

import "time"

// Business is the canonical record for one physical business location,
// independent of the data source it was ingested from.
type Business struct {
	ProviderID          string    `json:"provider_id" db:"provider_id"`
	Slug                string    `json:"slug" db:"slug"`
	Name                string    `json:"name" db:"name"`
	PrimaryCategory     string    `json:"primary_category" db:"primary_category"`
	SecondaryCategories []string  `json:"secondary_categories,omitempty" db:"-"`
	Address             Address   `json:"address" db:"-"`
	Latitude            *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude           *float64  `json:"longitude,omitempty" db:"longitude"`
	RatingValue         *float64  `json:"rating_value,omitempty" db:"rating_value"`
	RatingCount         int       `json:"rating_count" db:"rating_count"`
	IsClaimed           bool      `json:"is_claimed" db:"is_claimed"`
	WebsiteURL          string    `json:"website_url,omitempty" db:"website_url"`
	Phone               string    `json:"phone,omitempty" db:"phone"`
	WorkHours           WorkHours `json:"work_hours,omitempty" db:"-"`
	QueryCategory       string    `json:"query_category" db:"query_category"`
	QueryState          string    `json:"query_state" db:"query_state"`
	QueryCity           string    `json:"query_city" db:"query_city"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street      string `json:"street" db:"street"`
	City        string `json:"city" db:"city"`
	State       string `json:"state" db:"state"`
	Zip         string `json:"zip" db:"zip"`
	CountryCode string `json:"country_code" db:"country_code"`
}

// WorkHours is a weekly schedule keyed by lowercase day name
type WorkHours map[string][]HourRange

// HourRange is one open/close interval within a day
type HourRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// HasCoordinates reports whether both latitude and longitude are present.
// Records lacking either are excluded from ranked queries.
func (b *Business) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}
