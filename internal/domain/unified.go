package domain

import "time"

// Source identifies which store a unified property came from.
type Source string

const (
	SourceCRM Source = "crm"
	SourceMLS Source = "mls"
)

// UnifiedProperty is the response shape shared by both stores.
// Exactly one of CRM / MLS is set, matching Source. IDs are only unique
// within a source; use Key() when identity across sources matters.
type UnifiedProperty struct {
	Source       Source         `json:"source"`
	ID           string         `json:"id"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	Province     string         `json:"province"`
	PostalCode   string         `json:"postalCode"`
	PropertyType PropertyType   `json:"propertyType"`
	Status       PropertyStatus `json:"status"`
	Price        int64          `json:"price"`
	Bedrooms     string         `json:"bedrooms"`
	Bathrooms    *int           `json:"bathrooms"`
	SquareFeet   *int           `json:"squareFeet"`
	HeroImage    *string        `json:"heroImage"`
	Media        []string       `json:"media"`
	ListingDate  *time.Time     `json:"listingDate"`
	Description  string         `json:"description,omitempty"`

	CRM *CRMDetails `json:"crm,omitempty"`
	MLS *MLSDetails `json:"mls,omitempty"`
}

// CRMDetails fields only the agent's own listings carry.
type CRMDetails struct {
	Features  []string `json:"features"`
	YearBuilt *int     `json:"yearBuilt"`
}

// MLSDetails fields only feed listings carry.
type MLSDetails struct {
	StandardStatus   string   `json:"standardStatus"`
	FeedPropertyType string   `json:"feedPropertyType"`
	StreetName       string   `json:"streetName,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// Key is unique across sources.
func (p UnifiedProperty) Key() string {
	return string(p.Source) + ":" + p.ID
}

// SortTime listing date in unix millis; missing dates sort as the epoch.
func (p UnifiedProperty) SortTime() int64 {
	if p.ListingDate == nil {
		return 0
	}
	return p.ListingDate.UnixMilli()
}
