package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openlistings/directory/internal/domain/entities"
	"github.com/openlistings/directory/internal/infrastructure/clients/placedata"
	apperrors "github.com/openlistings/directory/pkg/errors"
	"github.com/openlistings/directory/pkg/normalize"
)

type mockPlaceClient struct {
	mock.Mock
}

func (m *mockPlaceClient) SearchBusinesses(ctx context.Context, req placedata.SearchRequest) (*placedata.SearchResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*placedata.SearchResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBusinessRepo struct {
	mock.Mock
}

func (m *mockBusinessRepo) Upsert(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *mockBusinessRepo) GetBySlug(ctx context.Context, slug string) (*entities.Business, error) {
	args := m.Called(ctx, slug)
	if b := args.Get(0); b != nil {
		return b.(*entities.Business), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBusinessRepo) ListByStateAndCategory(ctx context.Context, state, category, secondaryForm string) ([]*entities.Business, error) {
	args := m.Called(ctx, state, category, secondaryForm)
	if b := args.Get(0); b != nil {
		return b.([]*entities.Business), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockFetchLedger struct {
	mock.Mock
}

func (m *mockFetchLedger) HasFetched(ctx context.Context, key entities.FetchKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockFetchLedger) MarkFetched(ctx context.Context, key entities.FetchKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// memoryLedger is an in-process FetchLedger for flows that need real
// mark-then-check behavior across calls
type memoryLedger struct {
	entries map[entities.FetchKey]struct{}
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{entries: map[entities.FetchKey]struct{}{}}
}

func (l *memoryLedger) HasFetched(_ context.Context, key entities.FetchKey) (bool, error) {
	_, ok := l.entries[key]
	return ok, nil
}

func (l *memoryLedger) MarkFetched(_ context.Context, key entities.FetchKey) error {
	l.entries[key] = struct{}{}
	return nil
}

// memoryBusinessRepo is an in-process BusinessRepository keyed by provider ID
type memoryBusinessRepo struct {
	byProviderID map[string]*entities.Business
}

func newMemoryBusinessRepo() *memoryBusinessRepo {
	return &memoryBusinessRepo{byProviderID: map[string]*entities.Business{}}
}

func (r *memoryBusinessRepo) Upsert(_ context.Context, business *entities.Business) error {
	r.byProviderID[business.ProviderID] = business
	return nil
}

func (r *memoryBusinessRepo) GetBySlug(_ context.Context, slug string) (*entities.Business, error) {
	for _, b := range r.byProviderID {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, apperrors.NewNotFoundError("business not found")
}

func (r *memoryBusinessRepo) ListByStateAndCategory(_ context.Context, state, category, secondaryForm string) ([]*entities.Business, error) {
	var out []*entities.Business
	for _, b := range r.byProviderID {
		if b.Address.State != state {
			continue
		}
		primary := normalize.City(b.PrimaryCategory) == normalize.City(category)
		secondary := false
		for _, s := range b.SecondaryCategories {
			if s == secondaryForm {
				secondary = true
				break
			}
		}
		if !primary && !secondary {
			continue
		}
		if !b.HasCoordinates() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// fixtureRefData is a ReferenceDataProvider stub over in-memory fixtures
type fixtureRefData struct {
	categories []*entities.Category
	locations  []*entities.LocationRecord
}

func (f *fixtureRefData) Categories() []*entities.Category {
	return f.categories
}

func (f *fixtureRefData) CategoryBySlug(slug string) (*entities.Category, error) {
	for _, c := range f.categories {
		if normalize.City(c.Slug) == normalize.City(slug) {
			return c, nil
		}
	}
	return nil, apperrors.NewCategoryNotFoundError(slug)
}

func (f *fixtureRefData) ResolveLocation(city, state string) (*entities.LocationRecord, error) {
	for _, l := range f.locations {
		if normalize.City(l.City) != normalize.City(city) {
			continue
		}
		if normalize.StateKey(state) == l.StateAbbr || normalize.City(state) == normalize.City(l.State) {
			return l, nil
		}
	}
	return nil, apperrors.NewInvalidLocationError(city, state)
}
