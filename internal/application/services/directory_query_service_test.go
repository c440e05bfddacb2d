package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/infrastructure/clients/placedata"
	apperrors "github.com/openlistings/directory/pkg/errors"
)

const (
	springfieldLat = 39.7817
	springfieldLng = -89.6501
)

func springfieldFixtures() *fixtureRefData {
	return &fixtureRefData{
		categories: []*entities.Category{
			{Name: "Coffee Shops", Slug: "coffee-shops"},
		},
		locations: []*entities.LocationRecord{
			{
				City:      "Springfield",
				State:     "Illinois",
				StateAbbr: "IL",
				Latitude:  springfieldLat,
				Longitude: springfieldLng,
				ZipCodes:  []string{"62701", "62702"},
			},
		},
	}
}

// candidate builds a ranked-query candidate a given latitude offset (in
// degrees, ~111 km per degree) north of Springfield
func candidate(id string, latOffset float64) *entities.Business {
	lat := springfieldLat + latOffset
	lng := springfieldLng
	return &entities.Business{
		ProviderID:      id,
		Name:            "Shop " + id,
		PrimaryCategory: "Coffee Shops",
		Address: entities.Address{
			City:  "Springfield",
			State: "Illinois",
			Zip:   "62701",
		},
		Latitude:  &lat,
		Longitude: &lng,
	}
}

func newQueryService(repo *mockBusinessRepo) (*DirectoryQueryService, *mockFetchLedger) {
	client := &mockPlaceClient{}
	ledger := &mockFetchLedger{}
	ledger.On("HasFetched", mock.Anything, mock.Anything).Return(true, nil)

	ingestion := NewIngestionService(client, repo, ledger, 50)
	return NewDirectoryQueryService(springfieldFixtures(), ingestion, repo, NewScoringEngine()), ledger
}

func TestQuery_CategoryNotFound(t *testing.T) {
	service, _ := newQueryService(&mockBusinessRepo{})

	_, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "submarine-dealers",
		State:        "IL",
		City:         "springfield",
		Page:         1,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestQuery_InvalidLocation(t *testing.T) {
	service, _ := newQueryService(&mockBusinessRepo{})

	_, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops",
		State:        "NJ",
		City:         "gotham",
		Page:         1,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestQuery_SecondaryCategoryFormIsCapitalized(t *testing.T) {
	repo := &mockBusinessRepo{}
	repo.On("ListByStateAndCategory", mock.Anything, "Illinois", "Coffee Shops", "Coffee Shops").
		Return([]*entities.Business{}, nil)

	service, _ := newQueryService(repo)

	result, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops",
		State:        "IL",
		City:         "springfield",
		Page:         1,
	})

	require.NoError(t, err)
	assert.Zero(t, result.TotalCount)
	repo.AssertExpectations(t)
}

func TestQuery_Pagination(t *testing.T) {
	businesses := make([]*entities.Business, 0, 25)
	for i := 0; i < 25; i++ {
		businesses = append(businesses, candidate(fmt.Sprintf("p-%02d", i), 0))
	}

	repo := &mockBusinessRepo{}
	repo.On("ListByStateAndCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(businesses, nil)

	service, _ := newQueryService(repo)

	page1, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 1,
	})
	require.NoError(t, err)
	assert.Len(t, page1.Businesses, 10)
	assert.Equal(t, 25, page1.TotalCount)
	assert.Equal(t, 3, page1.TotalPages)
	assert.True(t, page1.HasNext)
	assert.False(t, page1.HasPrev)

	page3, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 3,
	})
	require.NoError(t, err)
	assert.Len(t, page3.Businesses, 5)
	assert.False(t, page3.HasNext)
	assert.True(t, page3.HasPrev)

	beyond, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 9,
	})
	require.NoError(t, err)
	assert.Empty(t, beyond.Businesses)
	assert.Equal(t, 25, beyond.TotalCount)
}

func TestQuery_RadiusCutoff(t *testing.T) {
	// ~2 km and ~55 km north of the target.
	near := candidate("p-near", 2.0/111.0)
	far := candidate("p-far", 0.5)

	repo := &mockBusinessRepo{}
	repo.On("ListByStateAndCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*entities.Business{far, near}, nil)

	service, _ := newQueryService(repo)

	result, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 1,
	})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "p-near", result.Businesses[0].ProviderID)
	assert.LessOrEqual(t, result.Businesses[0].DistanceKm, MaxRadiusKm)
}

func TestQuery_MissingCoordinatesExcluded(t *testing.T) {
	noCoords := candidate("p-null", 0)
	noCoords.Latitude = nil
	noCoords.RatingValue = floatPtr(5.0)
	noCoords.RatingCount = 1000

	repo := &mockBusinessRepo{}
	repo.On("ListByStateAndCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*entities.Business{noCoords, candidate("p-ok", 0)}, nil)

	service, _ := newQueryService(repo)

	result, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 1,
	})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "p-ok", result.Businesses[0].ProviderID)
}

func TestQuery_CloserBusinessRanksFirst(t *testing.T) {
	at3km := candidate("p-3km", 3.0/111.0)
	at15km := candidate("p-15km", 15.0/111.0)

	repo := &mockBusinessRepo{}
	repo.On("ListByStateAndCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*entities.Business{at15km, at3km}, nil)

	service, _ := newQueryService(repo)

	result, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 1,
	})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 2)
	assert.Equal(t, "p-3km", result.Businesses[0].ProviderID)
	assert.Equal(t, "p-15km", result.Businesses[1].ProviderID)
}

func TestQuery_MatchCounts(t *testing.T) {
	exact := candidate("p-exact", 0)

	related := candidate("p-related", 1.0/111.0)
	related.Address.City = "Jerome"

	nearby := candidate("p-nearby", 2.0/111.0)
	nearby.Address.City = "Chatham"
	nearby.Address.Zip = "62629"

	repo := &mockBusinessRepo{}
	repo.On("ListByStateAndCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*entities.Business{exact, related, nearby}, nil)

	service, _ := newQueryService(repo)

	result, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 1, result.ExactCount)
	assert.Equal(t, 1, result.RelatedCount)
	assert.Equal(t, 1, result.NearbyCount)

	// The per-record type never says "related": a ZIP-only match is nearby.
	for _, scored := range result.Businesses {
		if scored.ProviderID == "p-related" {
			assert.Equal(t, entities.ResultTypeNearby, scored.ResultType)
			assert.True(t, scored.InZipSet)
			assert.False(t, scored.ExactCityMatch)
		}
	}
}

func TestQuery_RelatedCountCanBeNegative(t *testing.T) {
	// Exact city matches whose ZIPs are outside the location's ZIP set.
	a := candidate("p-a", 0)
	a.Address.Zip = "99999"
	b := candidate("p-b", 0)
	b.Address.Zip = "99998"

	repo := &mockBusinessRepo{}
	repo.On("ListByStateAndCategory", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*entities.Business{a, b}, nil)

	service, _ := newQueryService(repo)

	result, err := service.Query(context.Background(), QueryParams{
		CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.ExactCount)
	assert.Equal(t, -2, result.RelatedCount)
}

func TestQuery_SecondQueryMakesNoProviderCalls(t *testing.T) {
	lat, lng := springfieldLat, springfieldLng
	client := &mockPlaceClient{}
	client.On("SearchBusinesses", mock.Anything, mock.Anything).Return(&placedata.SearchResponse{
		Data: []placedata.PlaceRecord{
			{
				ID:          "p-1",
				DisplayName: "Monument Coffee",
				City:        "Springfield",
				Region:      "Illinois",
				Zip:         "62701",
				Latitude:    &lat,
				Longitude:   &lng,
				Category:    "Coffee Shops",
			},
		},
	}, nil)

	repo := newMemoryBusinessRepo()
	ledger := newMemoryLedger()
	ingestion := NewIngestionService(client, repo, ledger, 50)
	service := NewDirectoryQueryService(springfieldFixtures(), ingestion, repo, NewScoringEngine())

	params := QueryParams{CategorySlug: "coffee-shops", State: "IL", City: "springfield", Page: 1}

	first, err := service.Query(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalCount)

	second, err := service.Query(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalCount)

	client.AssertNumberOfCalls(t, "SearchBusinesses", 1)
}

func TestRankedLess_TieBrokenByDistance(t *testing.T) {
	closer := &entities.ScoredBusiness{Score: 80, DistanceKm: 3}
	farther := &entities.ScoredBusiness{Score: 80, DistanceKm: 15}
	better := &entities.ScoredBusiness{Score: 90, DistanceKm: 19}

	assert.True(t, rankedLess(closer, farther))
	assert.False(t, rankedLess(farther, closer))
	assert.True(t, rankedLess(better, closer))
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "Coffee Shops", capitalizeWords("coffee shops"))
	assert.Equal(t, "Plumbers", capitalizeWords("PLUMBERS"))
	assert.Equal(t, "", capitalizeWords(""))
}
