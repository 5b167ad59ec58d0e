package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// mlsRecord Property entity as returned by the RESO web API.
type mlsRecord struct {
	ListingKey          string      `json:"ListingKey"`
	UnparsedAddress     string      `json:"UnparsedAddress"`
	StreetNumber        string      `json:"StreetNumber"`
	StreetName          string      `json:"StreetName"`
	StreetSuffix        string      `json:"StreetSuffix"`
	UnitNumber          string      `json:"UnitNumber"`
	City                string      `json:"City"`
	StateOrProvince     string      `json:"StateOrProvince"`
	PostalCode          string      `json:"PostalCode"`
	PropertyType        string      `json:"PropertyType"`
	PropertySubType     string      `json:"PropertySubType"`
	BedroomsTotal       *int        `json:"BedroomsTotal"`
	BathroomsTotal      *int        `json:"BathroomsTotalInteger"`
	LivingArea          *float64    `json:"LivingArea"`
	ListPrice           json.Number `json:"ListPrice"`
	PublicRemarks       string      `json:"PublicRemarks"`
	StandardStatus      string      `json:"StandardStatus"`
	ListingContractDate string      `json:"ListingContractDate"`
	Latitude            *float64    `json:"Latitude"`
	Longitude           *float64    `json:"Longitude"`
	Media               []struct {
		MediaKey  string `json:"MediaKey"`
		MediaURL  string `json:"MediaURL"`
		Order     int    `json:"Order"`
		Preferred bool   `json:"PreferredPhotoYN"`
	} `json:"Media"`
}

// toListing maps the API entity onto the replicated-table shape so the
// transformer handles both the same way.
func (r *mlsRecord) toListing() (*domain.MLSListing, []domain.MLSMedia) {
	feedType := r.PropertySubType
	if feedType == "" {
		feedType = r.PropertyType
	}
	l := &domain.MLSListing{
		ListingKey:      r.ListingKey,
		UnparsedAddress: r.UnparsedAddress,
		StreetNumber:    r.StreetNumber,
		StreetName:      r.StreetName,
		StreetSuffix:    r.StreetSuffix,
		UnitNumber:      r.UnitNumber,
		City:            r.City,
		StateOrProvince: r.StateOrProvince,
		PostalCode:      r.PostalCode,
		PropertyType:    feedType,
		BedroomsTotal:   r.BedroomsTotal,
		BathroomsTotal:  r.BathroomsTotal,
		LivingArea:      r.LivingArea,
		ListPrice:       r.ListPrice.String(),
		PublicRemarks:   r.PublicRemarks,
		StandardStatus:  r.StandardStatus,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
	if t, err := time.Parse("2006-01-02", r.ListingContractDate); err == nil {
		l.ListDate = &t
	}
	media := make([]domain.MLSMedia, 0, len(r.Media))
	for _, m := range r.Media {
		media = append(media, domain.MLSMedia{
			MediaKey:     m.MediaKey,
			ListingKey:   r.ListingKey,
			URL:          m.MediaURL,
			IsPreferred:  m.Preferred,
			DisplayOrder: m.Order,
		})
	}
	return l, media
}

// MLSClient RESO web API client (bearer token).
type MLSClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewMLSClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *MLSClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(token).
		SetHeader("Accept", "application/json")

	return &MLSClient{httpClient: client, logger: logger}
}

var listingKeyPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,32}$`)

// FetchListing one listing with its media. A 404 from the API wraps
// repository.ErrNotFound; other non-2xx answers carry the HTTP status text.
func (c *MLSClient) FetchListing(ctx context.Context, listingKey string) (*domain.MLSListing, []domain.MLSMedia, error) {
	if !listingKeyPattern.MatchString(listingKey) {
		return nil, nil, invalidf("malformed MLS number %q", listingKey)
	}

	var record mlsRecord
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("key", listingKey).
		SetQueryParam("$expand", "Media").
		SetResult(&record).
		Get("/Property('{key}')")
	if err != nil {
		c.logger.Error("MLS API call failed", zap.String("listing_key", listingKey), zap.Error(err))
		return nil, nil, fmt.Errorf("failed to call MLS API: %w", err)
	}

	if resp.StatusCode() == 404 {
		return nil, nil, fmt.Errorf("MLS listing %s: %w", listingKey, repository.ErrNotFound)
	}
	if resp.IsError() {
		c.logger.Warn("MLS API returned error",
			zap.String("listing_key", listingKey),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 512)),
		)
		return nil, nil, fmt.Errorf("MLS API error: %s", resp.Status())
	}
	if record.ListingKey == "" {
		return nil, nil, fmt.Errorf("MLS listing %s: %w", listingKey, repository.ErrNotFound)
	}

	l, media := record.toListing()
	c.logger.Info("Fetched MLS listing",
		zap.String("listing_key", listingKey),
		zap.Int("media_count", len(media)),
	)
	return l, media, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(" + strconv.Itoa(len(s)-n) + " more bytes)"
}
