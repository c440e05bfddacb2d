// Package referencedata serves the static category and location catalogs.
// Both datasets are parsed once at construction and held as read-only
// in-memory snapshots; callers share a single provider for the process
// lifetime and inject it where catalog lookups are needed.
package referencedata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/domain/providers"
	apperrors "github.com/openlistings/directory/pkg/errors"
	"github.com/openlistings/directory/pkg/normalize"
)

const (
	categoriesFile = "categories.csv"
	locationsFile  = "locations.csv"
)

// CSVProvider implements ReferenceDataProvider from two local CSV files
type CSVProvider struct {
	categories     []*entities.Category
	categoryBySlug map[string]*entities.Category
	locations      map[string]*entities.LocationRecord
}

// NewCSVProvider loads categories.csv and locations.csv from dir.
// categories.csv columns: name, slug.
// locations.csv columns: city, state, state_abbr, latitude, longitude,
// zips (whitespace-delimited).
func NewCSVProvider(dir string) (providers.ReferenceDataProvider, error) {
	categories, err := loadCategories(filepath.Join(dir, categoriesFile))
	if err != nil {
		return nil, err
	}

	locations, err := loadLocations(filepath.Join(dir, locationsFile))
	if err != nil {
		return nil, err
	}

	provider := &CSVProvider{
		categories:     categories,
		categoryBySlug: make(map[string]*entities.Category, len(categories)),
		locations:      make(map[string]*entities.LocationRecord, len(locations)*2),
	}

	for _, category := range categories {
		provider.categoryBySlug[strings.ToLower(category.Slug)] = category
	}

	for _, location := range locations {
		city := normalize.City(location.City)
		// Indexed under both state forms so callers may pass either.
		provider.locations[locationKey(city, location.StateAbbr)] = location
		provider.locations[locationKey(city, location.State)] = location
	}

	return provider, nil
}

// Categories returns the full category catalog
func (p *CSVProvider) Categories() []*entities.Category {
	return p.categories
}

// CategoryBySlug resolves a category by its URL slug, case-insensitively
func (p *CSVProvider) CategoryBySlug(slug string) (*entities.Category, error) {
	category, ok := p.categoryBySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return nil, apperrors.NewCategoryNotFoundError(slug)
	}
	return category, nil
}

// ResolveLocation resolves a city/state pair to its canonical record
func (p *CSVProvider) ResolveLocation(city, state string) (*entities.LocationRecord, error) {
	location, ok := p.locations[locationKey(normalize.City(city), state)]
	if !ok {
		return nil, apperrors.NewInvalidLocationError(city, state)
	}
	return location, nil
}

func locationKey(normalizedCity, state string) string {
	return normalizedCity + "|" + normalize.City(state)
}

func loadCategories(path string) ([]*entities.Category, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	categories := make([]*entities.Category, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("categories row %d: expected 2 columns, got %d", i+2, len(row))
		}
		categories = append(categories, &entities.Category{
			Name: strings.TrimSpace(row[0]),
			Slug: strings.TrimSpace(row[1]),
		})
	}
	return categories, nil
}

func loadLocations(path string) ([]*entities.LocationRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	locations := make([]*entities.LocationRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("locations row %d: expected 6 columns, got %d", i+2, len(row))
		}

		latitude, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("locations row %d: invalid latitude: %w", i+2, err)
		}
		longitude, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			return nil, fmt.Errorf("locations row %d: invalid longitude: %w", i+2, err)
		}

		locations = append(locations, &entities.LocationRecord{
			City:      strings.TrimSpace(row[0]),
			State:     strings.TrimSpace(row[1]),
			StateAbbr: strings.ToUpper(strings.TrimSpace(row[2])),
			Latitude:  latitude,
			Longitude: longitude,
			ZipCodes:  strings.Fields(row[5]),
		})
	}
	return locations, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if len(rows) == 0 {
		return nil, nil
	}
	// First row is the header.
	return rows[1:], nil
}
