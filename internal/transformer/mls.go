// Package transformer normalizes records from both stores into the
// unified property shape. Everything here is pure.
package transformer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"realtor-site/internal/domain"
)

// exactPropertyTypes feed PropertyType values with a known canonical type.
var exactPropertyTypes = map[string]domain.PropertyType{
	"detached":         domain.TypeDetached,
	"semi-detached":    domain.TypeDetached,
	"single family":    domain.TypeDetached,
	"link":             domain.TypeDetached,
	"condo apartment":  domain.TypeCondo,
	"condominium":      domain.TypeCondo,
	"co-op apt":        domain.TypeCondo,
	"townhouse":        domain.TypeTownhouse,
	"att/row/twnhouse": domain.TypeTownhouse,
	"condo townhouse":  domain.TypeTownhouse,
	"row house":        domain.TypeTownhouse,
	"vacant land":      domain.TypeLot,
	"land":             domain.TypeLot,
	"duplex":           domain.TypeMultiRes,
	"triplex":          domain.TypeMultiRes,
	"fourplex":         domain.TypeMultiRes,
	"multiplex":        domain.TypeMultiRes,
}

// MapPropertyType feed type -> canonical type. Exact table first, then
// substring heuristics in precedence order; anything unrecognized is
// detached. The MLS type filter in repository applies the same order.
func MapPropertyType(feed string) domain.PropertyType {
	s := strings.ToLower(strings.TrimSpace(feed))
	if t, ok := exactPropertyTypes[s]; ok {
		return t
	}
	switch {
	case strings.Contains(s, "town"), strings.Contains(s, "twnhouse"):
		return domain.TypeTownhouse
	case strings.Contains(s, "condo"), strings.Contains(s, "apartment"), strings.Contains(s, "co-op"):
		return domain.TypeCondo
	case strings.Contains(s, "land"), strings.Contains(s, "lot"):
		return domain.TypeLot
	case strings.Contains(s, "multi"), strings.Contains(s, "plex"):
		return domain.TypeMultiRes
	}
	return domain.TypeDetached
}

var exactStatuses = map[string]domain.PropertyStatus{
	"active":      domain.StatusActive,
	"sold":        domain.StatusSold,
	"pending":     domain.StatusConditional,
	"conditional": domain.StatusConditional,
	"leased":      domain.StatusLeased,
	"expired":     domain.StatusNotAvailable,
	"withdrawn":   domain.StatusNotAvailable,
	"terminated":  domain.StatusNotAvailable,
	"coming soon": domain.StatusComingSoon,
}

// MapStatus feed StandardStatus -> site status, default active.
func MapStatus(feed string) domain.PropertyStatus {
	if s, ok := exactStatuses[strings.ToLower(strings.TrimSpace(feed))]; ok {
		return s
	}
	return domain.StatusActive
}

// DisplayAddress standardized formatted address, then the raw feed
// string, then the street parts joined.
func DisplayAddress(l *domain.MLSListing) string {
	if l.AddressStandardized && strings.TrimSpace(l.FormattedAddress) != "" {
		return strings.TrimSpace(l.FormattedAddress)
	}
	if a := strings.TrimSpace(l.UnparsedAddress); a != "" {
		return a
	}
	var parts []string
	for _, p := range []string{l.StreetNumber, l.StreetName, l.StreetSuffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	addr := strings.Join(parts, " ")
	if u := strings.TrimSpace(l.UnitNumber); u != "" && addr != "" {
		addr = u + " - " + addr
	}
	return addr
}

// SortMedia display order, preferred first on ties. Returns a copy.
func SortMedia(media []domain.MLSMedia) []domain.MLSMedia {
	out := append([]domain.MLSMedia(nil), media...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].IsPreferred && !out[j].IsPreferred
	})
	return out
}

// HeroImage preferred row, else lowest display order, else nil.
func HeroImage(media []domain.MLSMedia) *string {
	var best *domain.MLSMedia
	for i := range media {
		m := &media[i]
		if m.URL == "" {
			continue
		}
		if m.IsPreferred {
			u := m.URL
			return &u
		}
		if best == nil || m.DisplayOrder < best.DisplayOrder {
			best = m
		}
	}
	if best == nil {
		return nil
	}
	u := best.URL
	return &u
}

// ParsePrice feed list_price is a numeric string ("1250000", "1250000.00",
// sometimes "$1,250,000"). Unparseable values become 0.
func ParsePrice(raw string) int64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(math.Round(f))
}

// FromMLS listing + its media -> unified property.
func FromMLS(l *domain.MLSListing, media []domain.MLSMedia) domain.UnifiedProperty {
	sorted := SortMedia(media)
	urls := make([]string, 0, len(sorted))
	for _, m := range sorted {
		if m.URL != "" {
			urls = append(urls, m.URL)
		}
	}

	var beds string
	if l.BedroomsTotal != nil {
		beds = strconv.Itoa(*l.BedroomsTotal)
	}
	var sqft *int
	if l.LivingArea != nil {
		v := int(math.Round(*l.LivingArea))
		sqft = &v
	}

	return domain.UnifiedProperty{
		Source:       domain.SourceMLS,
		ID:           l.ListingKey,
		Address:      DisplayAddress(l),
		City:         l.City,
		Province:     l.StateOrProvince,
		PostalCode:   l.PostalCode,
		PropertyType: MapPropertyType(l.PropertyType),
		Status:       MapStatus(l.StandardStatus),
		Price:        ParsePrice(l.ListPrice),
		Bedrooms:     beds,
		Bathrooms:    l.BathroomsTotal,
		SquareFeet:   sqft,
		HeroImage:    HeroImage(media),
		Media:        urls,
		ListingDate:  l.ListDate,
		Description:  l.PublicRemarks,
		MLS: &domain.MLSDetails{
			StandardStatus:   l.StandardStatus,
			FeedPropertyType: l.PropertyType,
			StreetName:       l.StreetName,
			Latitude:         l.Latitude,
			Longitude:        l.Longitude,
		},
	}
}

// FromProperty CRM row -> unified property.
func FromProperty(p *domain.Property) domain.UnifiedProperty {
	media := p.Media
	if media == nil {
		media = []string{}
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return domain.UnifiedProperty{
		Source:       domain.SourceCRM,
		ID:           p.ID,
		Address:      p.Address,
		City:         p.City,
		Province:     p.Province,
		PostalCode:   p.PostalCode,
		PropertyType: p.PropertyType,
		Status:       p.Status,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareFeet:   p.SquareFeet,
		HeroImage:    p.HeroImage,
		Media:        media,
		ListingDate:  p.ListingDate,
		Description:  p.Description,
		CRM: &domain.CRMDetails{
			Features:  features,
			YearBuilt: p.YearBuilt,
		},
	}
}

// ListingToProperty CRM draft from a feed record, used when the agent
// imports a listing by MLS number. The draft has no ID yet.
func ListingToProperty(l *domain.MLSListing, media []domain.MLSMedia) *domain.Property {
	u := FromMLS(l, media)
	return &domain.Property{
		Status:       u.Status,
		Address:      u.Address,
		City:         u.City,
		Province:     u.Province,
		PostalCode:   u.PostalCode,
		PropertyType: u.PropertyType,
		Price:        u.Price,
		Bedrooms:     u.Bedrooms,
		Bathrooms:    u.Bathrooms,
		SquareFeet:   u.SquareFeet,
		Features:     []string{},
		Media:        u.Media,
		HeroImage:    u.HeroImage,
		Description:  u.Description,
		ListingDate:  u.ListingDate,
	}
}
