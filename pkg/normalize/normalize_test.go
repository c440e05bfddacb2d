package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Springfield", "springfield"},
		{"two words", "San Francisco", "san-francisco"},
		{"punctuation stripped", "St. Louis", "st-louis"},
		{"apostrophe dropped", "Coeur d'Alene", "coeur-dalene"},
		{"collapsed separators", "Winston -- Salem", "winston-salem"},
		{"already normalized", "santa-fe", "santa-fe"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, City(tt.input))
		})
	}
}

func TestSlug(t *testing.T) {
	slug := Slug("Joe's Pizza", "123 Main Street", "Springfield")

	assert.Equal(t, "joes-pizza-main-st-springfield", slug)
	assert.Contains(t, slug, "joes-pizza")
	assert.Contains(t, slug, "main-st")
	assert.NotContains(t, slug, "main-street")
	assert.Contains(t, slug, "springfield")
	assert.False(t, strings.ContainsAny(slug[:1], "0123456789"))
}

func TestSlug_StreetReduction(t *testing.T) {
	tests := []struct {
		name   string
		street string
		want   string
	}{
		{"house number dropped", "450 Oak Avenue", "oak-ave"},
		{"suite token dropped", "Suite 200 Elm Boulevard", "elm-blvd"},
		{"unit and number dropped", "Unit 4 12 Pine Road", "pine-rd"},
		{"floor token dropped", "Fl 3 Cedar Drive", "cedar-dr"},
		{"no street type", "Broadway", "broadway"},
		{"empty street", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slug("Acme", tt.street, "Dayton")
			want := "acme-dayton"
			if tt.want != "" {
				want = "acme-" + tt.want + "-dayton"
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestSlug_NoLeadingDigits(t *testing.T) {
	slug := Slug("7 Dwarves Bakery", "9 High Street", "Reno")
	assert.NotEmpty(t, slug)
	assert.False(t, strings.ContainsAny(slug[:1], "0123456789"))
}

func TestStateKey(t *testing.T) {
	assert.Equal(t, "IL", StateKey("il"))
	assert.Equal(t, "IL", StateKey(" IL "))
}
