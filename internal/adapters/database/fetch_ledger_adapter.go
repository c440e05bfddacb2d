package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/domain/repositories"
	"github.com/openlistings/directory/internal/infrastructure/clients/postgres"
	apperrors "github.com/openlistings/directory/pkg/errors"
)

// FetchLedgerAdapter implements the FetchLedger interface on Postgres.
// Entries are keyed on (category, normalized city, state abbreviation);
// a TTL of zero means entries never expire.
type FetchLedgerAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	ttl    time.Duration
}

// NewFetchLedgerAdapter creates a new fetch ledger adapter
func NewFetchLedgerAdapter(client *postgres.Client, ttl time.Duration) repositories.FetchLedger {
	return &FetchLedgerAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		ttl:    ttl,
	}
}

// HasFetched reports whether the triple has a live ledger entry
func (a *FetchLedgerAdapter) HasFetched(ctx context.Context, key entities.FetchKey) (bool, error) {
	query, args, err := a.db.Select("fetched_at").
		From("fetch_ledger").
		Where(goqu.Ex{
			"category": key.Category,
			"city":     key.City,
			"state":    key.State,
		}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build ledger query", err)
	}

	var fetchedAt time.Time
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to read fetch ledger", err)
	}

	if a.ttl > 0 && time.Since(fetchedAt) > a.ttl {
		return false, nil
	}
	return true, nil
}

// MarkFetched upserts the ledger entry for the triple
func (a *FetchLedgerAdapter) MarkFetched(ctx context.Context, key entities.FetchKey) error {
	now := time.Now().UTC()

	query, args, err := a.db.Insert("fetch_ledger").
		Rows(goqu.Record{
			"category":   key.Category,
			"city":       key.City,
			"state":      key.State,
			"fetched_at": now,
		}).
		OnConflict(goqu.DoUpdate("category, city, state", goqu.Record{"fetched_at": now})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build ledger upsert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to mark triple fetched", err)
	}

	return nil
}
