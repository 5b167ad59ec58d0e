package domain

import (
	"encoding/json"
	"time"
)

// MLSListing replicated MLS feed record (mls_listings table). Read-only here.
// Text columns are COALESCEd to "" on read.
type MLSListing struct {
	ListingKey          string          `db:"listing_key"`
	UnparsedAddress     string          `db:"unparsed_address"`
	StreetNumber        string          `db:"street_number"`
	StreetName          string          `db:"street_name"`
	StreetSuffix        string          `db:"street_suffix"`
	UnitNumber          string          `db:"unit_number"`
	FormattedAddress    string          `db:"formatted_address"`
	AddressStandardized bool            `db:"address_standardized"`
	City                string          `db:"city"`
	StateOrProvince     string          `db:"state_or_province"`
	PostalCode          string          `db:"postal_code"`
	PropertyType        string          `db:"property_type"` // free text from the feed
	BedroomsTotal       *int            `db:"bedrooms_total"`
	BathroomsTotal      *int            `db:"bathrooms_total_integer"`
	LivingArea          *float64        `db:"living_area"`
	ListPrice           string          `db:"list_price"` // numeric string
	PublicRemarks       string          `db:"public_remarks"`
	StandardStatus      string          `db:"standard_status"`
	ListDate            *time.Time      `db:"list_date"`
	Latitude            *float64        `db:"latitude"`
	Longitude           *float64        `db:"longitude"`
	Raw                 json.RawMessage `db:"raw"`
}

// MLSMedia one photo row of a listing (mls_media table).
type MLSMedia struct {
	MediaKey     string `db:"media_key"`
	ListingKey   string `db:"listing_key"`
	URL          string `db:"media_url"`
	IsPreferred  bool   `db:"is_preferred"`
	DisplayOrder int    `db:"display_order"`
}
