package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"realtor-site/internal/domain"
	"realtor-site/internal/models"
	"realtor-site/internal/repository"
	"realtor-site/internal/transformer"

	"go.uber.org/zap"
)

const (
	defaultAddressLimit = 20
	maxAddressLimit     = 100
)

// Relevance scores for address hits, checked in this order.
const (
	scorePrefix    = 0.95
	scoreSubstring = 0.9
	scoreStreet    = 0.8
	scoreCity      = 0.7
	// Rows that matched in SQL on a column not checked above (postal code,
	// raw address) keep the neutral score and so sort ahead of weak hits.
	scoreNoMatch = 1.0
)

// AddressResult one ranked hit.
type AddressResult struct {
	domain.UnifiedProperty
	Relevance float64 `json:"relevanceScore"`
}

// SearchMetadata echoes how the query was interpreted.
type SearchMetadata struct {
	Query        string  `json:"query"`
	SearchType   string  `json:"searchType"`
	City         string  `json:"city,omitempty"`
	Province     string  `json:"province,omitempty"`
	PostalCode   string  `json:"postalCode,omitempty"`
	RadiusKm     float64 `json:"radiusKm,omitempty"`
	ResultCount  int     `json:"resultCount"`
	SearchTimeMs int64   `json:"searchTimeMs"`
}

// AddressSearchResponse data block of /api/search/addresses.
type AddressSearchResponse struct {
	Results        []AddressResult   `json:"results"`
	Pagination     models.Pagination `json:"pagination"`
	SearchMetadata SearchMetadata    `json:"searchMetadata"`
}

// AddressSearchService address lookup over the MLS store.
type AddressSearchService struct {
	listings repository.ListingsRepository
	logger   *zap.Logger
}

func NewAddressSearchService(listings repository.ListingsRepository, logger *zap.Logger) *AddressSearchService {
	return &AddressSearchService{listings: listings, logger: logger}
}

// ParseAddressQuery reads query params. Radius applies only when radius,
// lat and lng all parse; otherwise it is silently ignored.
func ParseAddressQuery(q url.Values) repository.AddressQuery {
	aq := repository.AddressQuery{
		Query:      strings.TrimSpace(q.Get("query")),
		City:       strings.TrimSpace(q.Get("city")),
		Province:   strings.TrimSpace(q.Get("province")),
		PostalCode: strings.TrimSpace(q.Get("postalCode")),
		SearchType: repository.ParseAddressSearchType(q.Get("searchType")),
		Limit:      defaultAddressLimit,
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		aq.Limit = n
	}
	if aq.Limit > maxAddressLimit {
		aq.Limit = maxAddressLimit
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		aq.Offset = n
	}

	km, errR := strconv.ParseFloat(q.Get("radius"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errR == nil && errLat == nil && errLng == nil && km > 0 &&
		lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 {
		aq.Radius = &repository.Radius{Km: km, Lat: lat, Lng: lng}
	}
	return aq
}

func (s *AddressSearchService) Search(ctx context.Context, q repository.AddressQuery) (*AddressSearchResponse, error) {
	started := time.Now()
	if q.Limit <= 0 {
		q.Limit = defaultAddressLimit
	}

	listings, total, err := s.listings.SearchAddresses(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("address search: %w", err)
	}

	keys := make([]string, len(listings))
	for i, l := range listings {
		keys[i] = l.ListingKey
	}
	media, err := s.listings.ListMedia(ctx, keys)
	if err != nil {
		// Photos are decoration here; rank without them.
		s.logger.Warn("Failed to load media for address results", zap.Error(err))
		media = map[string][]domain.MLSMedia{}
	}

	results := make([]AddressResult, 0, len(listings))
	for _, l := range listings {
		u := transformer.FromMLS(l, media[l.ListingKey])
		results = append(results, AddressResult{
			UnifiedProperty: u,
			Relevance:       Relevance(q.Query, u.Address, l.StreetName, l.City),
		})
	}
	if q.Query != "" {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Relevance > results[j].Relevance
		})
	}

	meta := SearchMetadata{
		Query:        q.Query,
		SearchType:   string(q.SearchType),
		City:         q.City,
		Province:     q.Province,
		PostalCode:   q.PostalCode,
		ResultCount:  len(results),
		SearchTimeMs: time.Since(started).Milliseconds(),
	}
	if q.Radius != nil {
		meta.RadiusKm = q.Radius.Km
	}

	return &AddressSearchResponse{
		Results:        results,
		Pagination:     models.NewPagination(total, q.Limit, q.Offset),
		SearchMetadata: meta,
	}, nil
}

// Relevance case-insensitive score of query against one hit.
func Relevance(query, address, street, city string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return scoreNoMatch
	}
	addr := strings.ToLower(address)
	switch {
	case strings.HasPrefix(addr, q):
		return scorePrefix
	case strings.Contains(addr, q):
		return scoreSubstring
	case street != "" && strings.Contains(strings.ToLower(street), q):
		return scoreStreet
	case city != "" && strings.Contains(strings.ToLower(city), q):
		return scoreCity
	}
	return scoreNoMatch
}
