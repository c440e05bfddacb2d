package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/domain/repositories"
	"github.com/openlistings/directory/internal/infrastructure/clients/postgres"
	apperrors "github.com/openlistings/directory/pkg/errors"
)

const businessColumns = `
	provider_id, slug, name, primary_category, secondary_categories,
	street, city, state, zip, country_code,
	latitude, longitude, rating_value, rating_count,
	is_claimed, website_url, phone, work_hours,
	query_category, query_state, query_city, created_at, updated_at`

// BusinessAdapter implements the BusinessRepository interface
type BusinessAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBusinessAdapter creates a new business adapter
func NewBusinessAdapter(client *postgres.Client) repositories.BusinessRepository {
	return &BusinessAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert inserts the business or updates all mutable fields when a record
// with the same provider ID already exists (last-write-wins)
func (a *BusinessAdapter) Upsert(ctx context.Context, business *entities.Business) error {
	now := time.Now().UTC()
	if business.CreatedAt.IsZero() {
		business.CreatedAt = now
	}
	business.UpdatedAt = now

	hours, err := marshalWorkHours(business.WorkHours)
	if err != nil {
		return apperrors.NewInternalError("failed to encode work hours", err)
	}

	record := goqu.Record{
		"provider_id":          business.ProviderID,
		"slug":                 business.Slug,
		"name":                 business.Name,
		"primary_category":     business.PrimaryCategory,
		"secondary_categories": pq.Array(business.SecondaryCategories),
		"street":               business.Address.Street,
		"city":                 business.Address.City,
		"state":                business.Address.State,
		"zip":                  business.Address.Zip,
		"country_code":         business.Address.CountryCode,
		"latitude":             nullFloat(business.Latitude),
		"longitude":            nullFloat(business.Longitude),
		"rating_value":         nullFloat(business.RatingValue),
		"rating_count":         business.RatingCount,
		"is_claimed":           business.IsClaimed,
		"website_url":          business.WebsiteURL,
		"phone":                business.Phone,
		"work_hours":           hours,
		"query_category":       business.QueryCategory,
		"query_state":          business.QueryState,
		"query_city":           business.QueryCity,
		"created_at":           business.CreatedAt,
		"updated_at":           business.UpdatedAt,
	}

	update := goqu.Record{}
	for column, value := range record {
		if column == "provider_id" || column == "created_at" {
			continue
		}
		update[column] = value
	}

	query, args, err := a.db.Insert("businesses").
		Rows(record).
		OnConflict(goqu.DoUpdate("provider_id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert business", err)
	}

	return nil
}

// GetBySlug retrieves a business by slug with a case-insensitive fallback
func (a *BusinessAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Business, error) {
	business, err := a.getOne(ctx, goqu.Ex{"slug": slug})
	if err == nil {
		return business, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	business, err = a.getOne(ctx, goqu.L("LOWER(slug) = LOWER(?)", slug))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("business with slug %s not found", slug))
		}
		return nil, err
	}
	return business, nil
}

// ListByStateAndCategory retrieves ranked-query candidates for a state and
// category. The primary category is matched case-insensitively; the
// secondary categories are matched exact-case against secondaryForm, an
// asymmetry callers depend on.
func (a *BusinessAdapter) ListByStateAndCategory(ctx context.Context, state, category, secondaryForm string) ([]*entities.Business, error) {
	query, args, err := a.db.Select(goqu.L(businessColumns)).
		From("businesses").
		Where(
			goqu.Ex{"state": state},
			goqu.Or(
				goqu.L("LOWER(primary_category) = LOWER(?)", category),
				goqu.L("? = ANY(secondary_categories)", secondaryForm),
			),
			goqu.C("latitude").IsNotNull(),
			goqu.C("longitude").IsNotNull(),
		).
		Order(goqu.C("provider_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build candidate query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list businesses", err)
	}
	defer rows.Close()

	businesses := []*entities.Business{}
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business", err)
		}
		businesses = append(businesses, business)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating businesses", err)
	}

	return businesses, nil
}

func (a *BusinessAdapter) getOne(ctx context.Context, condition goqu.Expression) (*entities.Business, error) {
	query, args, err := a.db.Select(goqu.L(businessColumns)).
		From("businesses").
		Where(condition).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	business, err := scanBusiness(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("business not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get business", err)
	}
	return business, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row rowScanner) (*entities.Business, error) {
	business := &entities.Business{}
	var (
		secondary pq.StringArray
		latitude  sql.NullFloat64
		longitude sql.NullFloat64
		rating    sql.NullFloat64
		hours     []byte
	)

	err := row.Scan(
		&business.ProviderID,
		&business.Slug,
		&business.Name,
		&business.PrimaryCategory,
		&secondary,
		&business.Address.Street,
		&business.Address.City,
		&business.Address.State,
		&business.Address.Zip,
		&business.Address.CountryCode,
		&latitude,
		&longitude,
		&rating,
		&business.RatingCount,
		&business.IsClaimed,
		&business.WebsiteURL,
		&business.Phone,
		&hours,
		&business.QueryCategory,
		&business.QueryState,
		&business.QueryCity,
		&business.CreatedAt,
		&business.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	business.SecondaryCategories = []string(secondary)
	if latitude.Valid {
		business.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		business.Longitude = &longitude.Float64
	}
	if rating.Valid {
		business.RatingValue = &rating.Float64
	}
	if len(hours) > 0 {
		var parsed entities.WorkHours
		if err := json.Unmarshal(hours, &parsed); err != nil {
			return nil, err
		}
		business.WorkHours = parsed
	}

	return business, nil
}

func marshalWorkHours(hours entities.WorkHours) (interface{}, error) {
	if len(hours) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(hours)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
