package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"
	"realtor-site/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyInput admin create/update body. Bedrooms stays free text.
type PropertyInput struct {
	Status       domain.PropertyStatus `json:"status"`
	Address      string                `json:"address"`
	City         string                `json:"city"`
	Province     string                `json:"province"`
	PostalCode   string                `json:"postalCode"`
	PropertyType domain.PropertyType   `json:"propertyType"`
	Price        int64                 `json:"price"`
	Bedrooms     string                `json:"bedrooms"`
	Bathrooms    *int                  `json:"bathrooms"`
	SquareFeet   *int                  `json:"squareFeet"`
	YearBuilt    *int                  `json:"yearBuilt"`
	Features     []string              `json:"features"`
	Media        []string              `json:"media"`
	HeroImage    *string               `json:"heroImage"`
	Description  string                `json:"description"`
	ListingDate  *time.Time            `json:"listingDate"`
}

func (in PropertyInput) validate() error {
	if strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.City) == "" {
		return invalidf("address and city are required")
	}
	if in.Status == "" {
		return invalidf("status is required")
	}
	if !in.Status.IsValid() {
		return invalidf("unknown status %q", in.Status)
	}
	if !in.PropertyType.IsValid() {
		return invalidf("unknown property type %q", in.PropertyType)
	}
	if in.Price < 0 {
		return invalidf("price must not be negative")
	}
	for _, v := range []*int{in.Bathrooms, in.SquareFeet, in.YearBuilt} {
		if v != nil && *v < 0 {
			return invalidf("numeric fields must not be negative")
		}
	}
	return nil
}

func (in PropertyInput) apply(p *domain.Property) {
	p.Status = in.Status
	p.Address = strings.TrimSpace(in.Address)
	p.City = strings.TrimSpace(in.City)
	p.Province = strings.TrimSpace(in.Province)
	if p.Province == "" {
		p.Province = "ON"
	}
	p.PostalCode = strings.ToUpper(strings.TrimSpace(in.PostalCode))
	p.PropertyType = in.PropertyType
	p.Price = in.Price
	p.Bedrooms = strings.TrimSpace(in.Bedrooms)
	p.Bathrooms = in.Bathrooms
	p.SquareFeet = in.SquareFeet
	p.YearBuilt = in.YearBuilt
	p.Features = nonEmpty(in.Features)
	p.Media = nonEmpty(in.Media)
	p.HeroImage = in.HeroImage
	if p.HeroImage != nil && strings.TrimSpace(*p.HeroImage) == "" {
		p.HeroImage = nil
	}
	p.Description = in.Description
	p.ListingDate = in.ListingDate
}

func nonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PropertyAdminService CRUD over the CRM store. Every successful write
// drops the cached searches.
type PropertyAdminService struct {
	properties repository.PropertiesRepository
	cache      *store.SearchCache
	logger     *zap.Logger
}

func NewPropertyAdminService(properties repository.PropertiesRepository, cache *store.SearchCache, logger *zap.Logger) *PropertyAdminService {
	return &PropertyAdminService{properties: properties, cache: cache, logger: logger}
}

func (s *PropertyAdminService) List(ctx context.Context, filter repository.PropertiesFilter, limit, offset int) ([]*domain.Property, int, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, invalidf("unknown status %q", filter.Status)
	}
	return s.properties.ListProperties(ctx, filter, limit, offset)
}

func (s *PropertyAdminService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.properties.GetProperty(ctx, id)
}

func (s *PropertyAdminService) Create(ctx context.Context, in PropertyInput) (*domain.Property, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &domain.Property{ID: uuid.NewString()}
	in.apply(p)
	if err := s.properties.CreateProperty(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Property created", zap.String("property_id", p.ID))
	s.invalidate(ctx)
	return p, nil
}

func (s *PropertyAdminService) Update(ctx context.Context, id string, in PropertyInput) (*domain.Property, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.properties.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.properties.UpdateProperty(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Property updated", zap.String("property_id", id), zap.String("status", string(p.Status)))
	s.invalidate(ctx)
	return p, nil
}

// Archive the admin "delete".
func (s *PropertyAdminService) Archive(ctx context.Context, id string) error {
	if err := s.properties.ArchiveProperty(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Property archived", zap.String("property_id", id))
	s.invalidate(ctx)
	return nil
}

func (s *PropertyAdminService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate search cache", zap.Error(err))
	}
}

// ExportAll every non-archived property as an XLSX workbook.
func (s *PropertyAdminService) ExportAll(ctx context.Context) ([]byte, error) {
	const pageSize = 500
	var all []*domain.Property
	for offset := 0; ; offset += pageSize {
		page, total, err := s.properties.ListProperties(ctx, repository.PropertiesFilter{}, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to load properties for export: %w", err)
		}
		all = append(all, page...)
		if len(page) < pageSize || len(all) >= total {
			break
		}
	}
	return GeneratePropertyExport(all)
}
