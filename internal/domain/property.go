package domain

import "time"

// PropertyStatus lifecycle of an agent-curated listing.
type PropertyStatus string

const (
	StatusComingSoon   PropertyStatus = "coming_soon"
	StatusActive       PropertyStatus = "active"
	StatusConditional  PropertyStatus = "conditional"
	StatusSold         PropertyStatus = "sold"
	StatusLeased       PropertyStatus = "leased"
	StatusNotAvailable PropertyStatus = "not_available"
	StatusArchived     PropertyStatus = "archived"
)

// IsValid reports whether s is one of the known statuses.
func (s PropertyStatus) IsValid() bool {
	switch s {
	case StatusComingSoon, StatusActive, StatusConditional, StatusSold,
		StatusLeased, StatusNotAvailable, StatusArchived:
		return true
	}
	return false
}

// PropertyType canonical property types used by the site and the CRM store.
type PropertyType string

const (
	TypeDetached  PropertyType = "detached"
	TypeCondo     PropertyType = "condo"
	TypeTownhouse PropertyType = "townhouse"
	TypeLot       PropertyType = "lot"
	TypeMultiRes  PropertyType = "multi-res"
)

// PropertyTypes in display order.
var PropertyTypes = []PropertyType{TypeDetached, TypeCondo, TypeTownhouse, TypeLot, TypeMultiRes}

// IsValid reports whether t is a canonical property type.
func (t PropertyType) IsValid() bool {
	for _, v := range PropertyTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Property agent-owned listing (properties table).
// Bedrooms is free text so the agent can write "3+1".
type Property struct {
	ID           string         `db:"id" json:"id"`
	Status       PropertyStatus `db:"status" json:"status"`
	Address      string         `db:"address" json:"address"`
	City         string         `db:"city" json:"city"`
	Province     string         `db:"province" json:"province"`
	PostalCode   string         `db:"postal_code" json:"postalCode"`
	PropertyType PropertyType   `db:"property_type" json:"propertyType"`
	Price        int64          `db:"price" json:"price"`
	Bedrooms     string         `db:"bedrooms" json:"bedrooms"`
	Bathrooms    *int           `db:"bathrooms" json:"bathrooms"`
	SquareFeet   *int           `db:"square_feet" json:"squareFeet"`
	YearBuilt    *int           `db:"year_built" json:"yearBuilt"`
	Features     []string       `db:"features" json:"features"` // JSONB
	Media        []string       `db:"media" json:"media"`       // JSONB
	HeroImage    *string        `db:"hero_image" json:"heroImage"`
	Description  string         `db:"description" json:"description"`
	ListingDate  *time.Time     `db:"listing_date" json:"listingDate"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}
