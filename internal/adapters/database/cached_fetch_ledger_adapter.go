package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/domain/providers"
	"github.com/openlistings/directory/internal/domain/repositories"
)

// ledgerHitTTL bounds how long a positive ledger answer is served from
// cache. Only positive answers are cached: a miss must always re-check
// the datastore, otherwise a concurrent ingest would be invisible.
const ledgerHitTTL = 3600

// CachedFetchLedgerAdapter wraps a FetchLedger with a read-through cache
// so hot directory pages do not hit the datastore for the ledger on
// every render.
type CachedFetchLedgerAdapter struct {
	ledger repositories.FetchLedger
	cache  providers.CacheProvider
}

// NewCachedFetchLedgerAdapter creates a new cached fetch ledger adapter
func NewCachedFetchLedgerAdapter(ledger repositories.FetchLedger, cache providers.CacheProvider) repositories.FetchLedger {
	return &CachedFetchLedgerAdapter{
		ledger: ledger,
		cache:  cache,
	}
}

func ledgerCacheKey(key entities.FetchKey) string {
	return fmt.Sprintf("ledger:%s:%s:%s", key.Category, key.City, key.State)
}

// HasFetched reports whether the triple has a live ledger entry,
// consulting the cache before the datastore
func (a *CachedFetchLedgerAdapter) HasFetched(ctx context.Context, key entities.FetchKey) (bool, error) {
	cacheKey := ledgerCacheKey(key)

	if exists, err := a.cache.Exists(ctx, cacheKey); err == nil && exists {
		return true, nil
	}

	fetched, err := a.ledger.HasFetched(ctx, key)
	if err != nil {
		return false, err
	}

	if fetched {
		if err := a.cache.Set(ctx, cacheKey, []byte("1"), ledgerHitTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache ledger hit")
		}
	}

	return fetched, nil
}

// MarkFetched upserts the ledger entry and primes the cache
func (a *CachedFetchLedgerAdapter) MarkFetched(ctx context.Context, key entities.FetchKey) error {
	if err := a.ledger.MarkFetched(ctx, key); err != nil {
		return err
	}

	cacheKey := ledgerCacheKey(key)
	if err := a.cache.Set(ctx, cacheKey, []byte("1"), ledgerHitTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to prime ledger cache")
	}

	return nil
}
