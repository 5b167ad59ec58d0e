package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"
	"realtor-site/internal/store"
	"realtor-site/internal/transformer"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PropertySearchService merged CRM + MLS property search.
type PropertySearchService struct {
	properties repository.PropertiesRepository
	listings   repository.ListingsRepository
	cache      *store.SearchCache // nil disables caching
	logger     *zap.Logger
}

func NewPropertySearchService(
	properties repository.PropertiesRepository,
	listings repository.ListingsRepository,
	cache *store.SearchCache,
	logger *zap.Logger,
) *PropertySearchService {
	return &PropertySearchService{
		properties: properties,
		listings:   listings,
		cache:      cache,
		logger:     logger,
	}
}

// Search queries both stores concurrently. A failing MLS store degrades the
// result to CRM only; a failing CRM store fails the call. The result is
// ordered by listing date (newest first, undated last) and cut to s.Limit.
func (s *PropertySearchService) Search(ctx context.Context, q repository.PropertySearch) ([]domain.UnifiedProperty, error) {
	params := q.CacheParams()
	var cached []domain.UnifiedProperty
	if s.cache.Load(ctx, params, &cached) {
		return cached, nil
	}

	var (
		crmRows  []*domain.Property
		listings []*domain.MLSListing
		media    map[string][]domain.MLSMedia
		mlsErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.properties.SearchProperties(gctx, q)
		if err != nil {
			return fmt.Errorf("crm search: %w", err)
		}
		crmRows = rows
		return nil
	})
	g.Go(func() error {
		// Never returned to the group: a CRM-only answer is still an answer.
		listings, media, mlsErr = s.listings.SearchListings(gctx, q)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if mlsErr != nil {
		s.logger.Warn("MLS search failed, returning CRM results only", zap.Error(mlsErr))
		listings = nil
	}

	merged := make([]domain.UnifiedProperty, 0, len(crmRows)+len(listings))
	for _, p := range crmRows {
		merged = append(merged, transformer.FromProperty(p))
	}
	for _, l := range listings {
		merged = append(merged, transformer.FromMLS(l, media[l.ListingKey]))
	}
	merged = RankByListingDate(merged, q.Limit)

	// Degraded results are not cached so the next request retries MLS.
	if mlsErr == nil {
		s.cache.Store(ctx, params, merged)
	}
	return merged, nil
}

// RankByListingDate stable sort newest first; limit <= 0 keeps everything.
// Ties keep input order (CRM before MLS, each in store order).
func RankByListingDate(items []domain.UnifiedProperty, limit int) []domain.UnifiedProperty {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortTime() > items[j].SortTime()
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Get single property by source; CRM archived rows are not found.
func (s *PropertySearchService) Get(ctx context.Context, source domain.Source, id string) (*domain.UnifiedProperty, error) {
	switch source {
	case domain.SourceCRM, "":
		p, err := s.properties.GetProperty(ctx, id)
		if err != nil {
			return nil, err
		}
		u := transformer.FromProperty(p)
		return &u, nil
	case domain.SourceMLS:
		l, media, err := s.listings.GetListing(ctx, id)
		if err != nil {
			return nil, err
		}
		u := transformer.FromMLS(l, media)
		return &u, nil
	}
	return nil, invalidf("unknown source %q", source)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
