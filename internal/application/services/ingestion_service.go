package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/domain/repositories"
	"github.com/openlistings/directory/internal/infrastructure/clients/placedata"
	"github.com/openlistings/directory/internal/infrastructure/observability"
	"github.com/openlistings/directory/pkg/normalize"
)

// IngestionService pulls provider records for a (category, city, state)
// triple on first sight and hydrates them into the business repository.
// The fetch ledger gates every provider call, so an already-sourced
// triple is a no-op.
type IngestionService struct {
	client       placedata.Client
	businessRepo repositories.BusinessRepository
	ledger       repositories.FetchLedger
	searchLimit  int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	client placedata.Client,
	businessRepo repositories.BusinessRepository,
	ledger repositories.FetchLedger,
	searchLimit int,
) *IngestionService {
	return &IngestionService{
		client:       client,
		businessRepo: businessRepo,
		ledger:       ledger,
		searchLimit:  searchLimit,
	}
}

// LedgerKey returns the canonical ledger key for a triple: lowercase
// category, normalized city, uppercase state abbreviation
func LedgerKey(category, city, stateAbbr string) entities.FetchKey {
	return entities.FetchKey{
		Category: strings.ToLower(strings.TrimSpace(category)),
		City:     normalize.City(city),
		State:    normalize.StateKey(stateAbbr),
	}
}

// Ingest sources the triple from the external provider unless the fetch
// ledger already records it, upserts the transformed records and marks
// the triple fetched. It returns the number of records written.
//
// A provider-call failure degrades to zero records so the caller can
// still rank whatever the repository already holds; repository failures
// propagate.
func (s *IngestionService) Ingest(ctx context.Context, category, city, stateAbbr string) (int, error) {
	logger := observability.LoggerFromContext(ctx)
	key := LedgerKey(category, city, stateAbbr)

	fetched, err := s.ledger.HasFetched(ctx, key)
	if err != nil {
		return 0, err
	}
	if fetched {
		return 0, nil
	}

	keyword := fmt.Sprintf("%s %s %s", category, city, stateAbbr)
	resp, err := s.client.SearchBusinesses(ctx, placedata.SearchRequest{
		Keyword: keyword,
		Limit:   s.searchLimit,
	})
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		logger.Warn().
			Err(err).
			Str("keyword", keyword).
			Msg("provider search failed, continuing with repository data")
		return 0, nil
	}

	written := 0
	seen := make(map[string]struct{}, len(resp.Data))
	for _, record := range resp.Data {
		if strings.TrimSpace(record.DisplayName) == "" || strings.TrimSpace(record.City) == "" {
			logger.Debug().
				Str("provider_id", record.ID).
				Msg("skipping provider record without name or city")
			continue
		}
		if _, dup := seen[record.ID]; dup {
			continue
		}
		seen[record.ID] = struct{}{}

		business := transformRecord(record, category, city, stateAbbr)
		if err := s.businessRepo.Upsert(ctx, business); err != nil {
			return written, err
		}
		written++
	}

	if err := s.ledger.MarkFetched(ctx, key); err != nil {
		return written, err
	}

	logger.Info().
		Str("category", key.Category).
		Str("city", key.City).
		Str("state", key.State).
		Int("records", written).
		Msg("ingested provider records")

	return written, nil
}

// transformRecord maps a raw provider record into the canonical schema
func transformRecord(record placedata.PlaceRecord, queryCategory, queryCity, queryState string) *entities.Business {
	business := &entities.Business{
		ProviderID:          record.ID,
		Slug:                normalize.Slug(record.DisplayName, record.Street, record.City),
		Name:                record.DisplayName,
		PrimaryCategory:     record.Category,
		SecondaryCategories: record.SubCategories,
		Address: entities.Address{
			Street:      record.Street,
			City:        record.City,
			State:       record.Region,
			Zip:         record.Zip,
			CountryCode: record.CountryCode,
		},
		Latitude:      record.Latitude,
		Longitude:     record.Longitude,
		RatingValue:   record.Rating,
		RatingCount:   record.ReviewCount,
		IsClaimed:     record.Claimed,
		WebsiteURL:    record.Website,
		Phone:         record.Phone,
		WorkHours:     transformHours(record.Hours),
		QueryCategory: queryCategory,
		QueryState:    queryState,
		QueryCity:     queryCity,
	}

	if business.PrimaryCategory == "" {
		business.PrimaryCategory = queryCategory
	}

	return business
}

func transformHours(hours map[string][]placedata.HoursEntry) entities.WorkHours {
	if len(hours) == 0 {
		return nil
	}

	out := make(entities.WorkHours, len(hours))
	for day, entries := range hours {
		ranges := make([]entities.HourRange, 0, len(entries))
		for _, entry := range entries {
			if entry.Open == "" || entry.Close == "" {
				continue
			}
			ranges = append(ranges, entities.HourRange{Open: entry.Open, Close: entry.Close})
		}
		if len(ranges) > 0 {
			out[strings.ToLower(day)] = ranges
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
