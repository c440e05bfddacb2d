// Package normalize holds the string canonicalization shared by every
// component that compares city names or derives listing slugs.
package normalize

import (
	"strings"
	"unicode"
)

// streetAbbreviations maps common street-type words to their short forms
var streetAbbreviations = map[string]string{
	"street":     "st",
	"avenue":     "ave",
	"boulevard":  "blvd",
	"road":       "rd",
	"drive":      "dr",
	"lane":       "ln",
	"court":      "ct",
	"place":      "pl",
	"terrace":    "ter",
	"highway":    "hwy",
	"parkway":    "pkwy",
	"square":     "sq",
	"circle":     "cir",
	"expressway": "expy",
}

// unitTokens are leading street tokens that carry no locality information
var unitTokens = map[string]struct{}{
	"unit":      {},
	"suite":     {},
	"ste":       {},
	"apt":       {},
	"apartment": {},
	"floor":     {},
	"fl":        {},
	"bldg":      {},
	"building":  {},
	"no":        {},
}

// City returns the canonical form of a city name: lowercase, punctuation
// stripped, runs of non-alphanumeric characters collapsed to a single hyphen.
func City(s string) string {
	return hyphenate(s)
}

// Slug derives the URL slug for a business from its name, street and city.
// The street is reduced first: leading house numbers and unit/suite/floor
// tokens are dropped and street-type words are abbreviated, so
// "123 Main Street" contributes "main-st".
func Slug(name, street, city string) string {
	parts := make([]string, 0, 3)
	if p := hyphenate(name); p != "" {
		parts = append(parts, p)
	}
	if p := streetSlug(street); p != "" {
		parts = append(parts, p)
	}
	if p := hyphenate(city); p != "" {
		parts = append(parts, p)
	}

	slug := strings.Join(parts, "-")
	// Slugs must not begin with a digit, regardless of the business name.
	slug = strings.TrimLeft(slug, "0123456789-")
	return slug
}

// StateKey returns the canonical ledger form of a state identifier:
// the uppercase abbreviation when one is given, otherwise the uppercased
// input (callers resolve full names to abbreviations before keying).
func StateKey(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

func streetSlug(street string) string {
	tokens := tokenize(street)

	// Drop leading house numbers and unit designators.
	for len(tokens) > 0 {
		t := tokens[0]
		if isNumeric(t) {
			tokens = tokens[1:]
			continue
		}
		if _, ok := unitTokens[t]; ok {
			tokens = tokens[1:]
			continue
		}
		break
	}

	for i, t := range tokens {
		if abbr, ok := streetAbbreviations[t]; ok {
			tokens[i] = abbr
		}
	}

	return strings.Join(tokens, "-")
}

func hyphenate(s string) string {
	return strings.Join(tokenize(s), "-")
}

// tokenize lowercases s and splits it into alphanumeric runs
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range strings.ToLower(s) {
		// Apostrophes are dropped, not treated as separators: "Joe's" -> "joes".
		if r == '\'' || r == '’' {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
