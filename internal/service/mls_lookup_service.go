package service

import (
	"context"
	"strings"

	"realtor-site/internal/domain"
	"realtor-site/internal/transformer"

	"go.uber.org/zap"
)

// ListingFetcher remote single-listing lookup.
type ListingFetcher interface {
	FetchListing(ctx context.Context, listingKey string) (*domain.MLSListing, []domain.MLSMedia, error)
}

// MLSLookupService turns a remote MLS record into a CRM property draft the
// agent can review before saving.
type MLSLookupService struct {
	fetcher ListingFetcher
	logger  *zap.Logger
}

func NewMLSLookupService(fetcher ListingFetcher, logger *zap.Logger) *MLSLookupService {
	return &MLSLookupService{fetcher: fetcher, logger: logger}
}

// PropertyDraft lookup result: the draft plus the source record reference.
type PropertyDraft struct {
	*domain.Property
	MLSNumber        string `json:"mlsNumber"`
	FeedStatus       string `json:"feedStatus"`
	FeedPropertyType string `json:"feedPropertyType"`
}

func (s *MLSLookupService) Lookup(ctx context.Context, mlsNumber string) (*PropertyDraft, error) {
	mlsNumber = strings.TrimSpace(mlsNumber)
	if mlsNumber == "" {
		return nil, invalidf("MLS number is required")
	}
	l, media, err := s.fetcher.FetchListing(ctx, mlsNumber)
	if err != nil {
		return nil, err
	}
	return &PropertyDraft{
		Property:         transformer.ListingToProperty(l, media),
		MLSNumber:        l.ListingKey,
		FeedStatus:       l.StandardStatus,
		FeedPropertyType: l.PropertyType,
	}, nil
}

// UpstreamStatus HTTP status for an MLS API failure, inferred from the
// error text; 500 when nothing matches.
func UpstreamStatus(err error) int {
	if err == nil {
		return 200
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "400") || strings.Contains(msg, "bad request"):
		return 400
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized"):
		return 401
	case strings.Contains(msg, "403") || strings.Contains(msg, "forbidden"):
		return 403
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "rate limit"):
		return 429
	}
	return 500
}
