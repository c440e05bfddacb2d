package services

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/domain/providers"
	"github.com/openlistings/directory/internal/domain/repositories"
	"github.com/openlistings/directory/internal/infrastructure/observability"
	"github.com/openlistings/directory/pkg/normalize"
)

const (
	// MaxRadiusKm is the distance cutoff for ranked results
	MaxRadiusKm = 20.0

	// PageSize is the fixed number of results per page
	PageSize = 10
)

// QueryParams identifies one directory page request
type QueryParams struct {
	CategorySlug string
	State        string
	City         string
	Page         int
}

// QueryResult is the pagination envelope returned to the rendering layer.
// The aggregate counts cover the full filtered set, not just the page.
type QueryResult struct {
	Businesses   []*entities.ScoredBusiness `json:"businesses"`
	TotalCount   int                        `json:"total_count"`
	ExactCount   int                        `json:"exact_count"`
	RelatedCount int                        `json:"related_count"`
	NearbyCount  int                        `json:"nearby_count"`
	CurrentPage  int                        `json:"current_page"`
	TotalPages   int                        `json:"total_pages"`
	HasNext      bool                       `json:"has_next"`
	HasPrev      bool                       `json:"has_prev"`
}

// DirectoryQueryService orchestrates a directory query: resolve the
// category and location, trigger ingestion (a no-op on ledger hits),
// then score, rank and paginate the repository candidates.
type DirectoryQueryService struct {
	refData      providers.ReferenceDataProvider
	ingestion    *IngestionService
	businessRepo repositories.BusinessRepository
	scoring      *ScoringEngine
}

// NewDirectoryQueryService creates a new directory query service
func NewDirectoryQueryService(
	refData providers.ReferenceDataProvider,
	ingestion *IngestionService,
	businessRepo repositories.BusinessRepository,
	scoring *ScoringEngine,
) *DirectoryQueryService {
	return &DirectoryQueryService{
		refData:      refData,
		ingestion:    ingestion,
		businessRepo: businessRepo,
		scoring:      scoring,
	}
}

// Query runs one directory page request. Unknown categories and
// locations surface as not-found errors; repository failures propagate.
// Results are deterministic for a fixed repository snapshot.
func (s *DirectoryQueryService) Query(ctx context.Context, params QueryParams) (*QueryResult, error) {
	logger := observability.LoggerFromContext(ctx)

	category, err := s.refData.CategoryBySlug(params.CategorySlug)
	if err != nil {
		return nil, err
	}

	location, err := s.refData.ResolveLocation(params.City, params.State)
	if err != nil {
		return nil, err
	}

	// Ingest is called unconditionally; it no-ops on a ledger hit and
	// degrades to zero records when the provider is unavailable.
	if _, err := s.ingestion.Ingest(ctx, category.Name, location.City, location.StateAbbr); err != nil {
		return nil, err
	}

	candidates, err := s.businessRepo.ListByStateAndCategory(ctx, location.State, category.Name, capitalizeWords(category.Name))
	if err != nil {
		return nil, err
	}

	zipSet := location.ZipSet()
	queryCity := normalize.City(location.City)

	ranked := make([]*entities.ScoredBusiness, 0, len(candidates))
	for _, business := range candidates {
		if !business.HasCoordinates() {
			continue
		}

		distance := s.scoring.Distance(location.Latitude, location.Longitude, *business.Latitude, *business.Longitude)
		if distance > MaxRadiusKm {
			continue
		}

		exact := normalize.City(business.Address.City) == queryCity
		_, inZip := zipSet[business.Address.Zip]

		resultType := entities.ResultTypeNearby
		if exact {
			resultType = entities.ResultTypeExact
		}

		ranked = append(ranked, &entities.ScoredBusiness{
			Business:       business,
			DistanceKm:     distance,
			Score:          s.scoring.Score(business, location.Latitude, location.Longitude, exact, zipSet),
			ExactCityMatch: exact,
			InZipSet:       inZip,
			ResultType:     resultType,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedLess(ranked[i], ranked[j])
	})

	exactCount := 0
	zipMatchCount := 0
	for _, scored := range ranked {
		if scored.ExactCityMatch {
			exactCount++
		}
		if scored.InZipSet {
			zipMatchCount++
		}
	}
	// relatedCount may legitimately be negative in degenerate data and is
	// reported as computed.
	relatedCount := zipMatchCount - exactCount
	nearbyCount := len(ranked) - exactCount - relatedCount

	page := params.Page
	if page < 1 {
		page = 1
	}

	totalCount := len(ranked)
	totalPages := (totalCount + PageSize - 1) / PageSize

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	logger.Debug().
		Str("category", category.Slug).
		Str("city", queryCity).
		Str("state", location.StateAbbr).
		Int("total", totalCount).
		Int("page", page).
		Msg("directory query ranked")

	return &QueryResult{
		Businesses:   ranked[start:end],
		TotalCount:   totalCount,
		ExactCount:   exactCount,
		RelatedCount: relatedCount,
		NearbyCount:  nearbyCount,
		CurrentPage:  page,
		TotalPages:   totalPages,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}, nil
}

// rankedLess orders by descending score, ties broken by ascending
// distance so the closer business wins
func rankedLess(a, b *entities.ScoredBusiness) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.DistanceKm < b.DistanceKm
}

// capitalizeWords builds the exact-case form used for the secondary
// category match ("coffee shops" -> "Coffee Shops"). Secondary matching
// is deliberately case-sensitive while primary matching is not; see the
// repository contract.
func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
