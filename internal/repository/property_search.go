package repository

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"realtor-site/internal/domain"

	"github.com/lib/pq"
)

// PropertySearch parsed /api/properties query. Nil pointers mean "no filter".
type PropertySearch struct {
	Search       string
	City         string
	MinPrice     *int64
	MaxPrice     *int64
	Bedrooms     *int // lower bound
	Bathrooms    *int // lower bound
	PropertyType domain.PropertyType
	Limit        int
}

// ParsePropertySearch reads the flat query-string parameters.
// Malformed numbers drop that filter instead of failing. Explicit
// minPrice/maxPrice win over the matching half of priceRange.
func ParsePropertySearch(q url.Values, defaultLimit, maxLimit int) PropertySearch {
	s := PropertySearch{
		Search: strings.TrimSpace(q.Get("search")),
		City:   strings.TrimSpace(q.Get("city")),
		Limit:  defaultLimit,
	}

	if min, max, ok := parsePriceRange(q.Get("priceRange")); ok {
		s.MinPrice, s.MaxPrice = min, max
	}
	if v, ok := parseAmount(q.Get("minPrice")); ok {
		s.MinPrice = &v
	}
	if v, ok := parseAmount(q.Get("maxPrice")); ok {
		s.MaxPrice = &v
	}

	s.Bedrooms = parseLowerBound(q.Get("bedrooms"))
	s.Bathrooms = parseLowerBound(q.Get("bathrooms"))

	if pt := domain.PropertyType(strings.ToLower(strings.TrimSpace(q.Get("propertyType")))); pt.IsValid() {
		s.PropertyType = pt
	}

	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil && n > 0 {
		s.Limit = n
	}
	if maxLimit > 0 && s.Limit > maxLimit {
		s.Limit = maxLimit
	}
	return s
}

// CacheParams canonical form of the search, used for cache keys.
func (s PropertySearch) CacheParams() map[string]string {
	m := map[string]string{
		"search":       strings.ToLower(s.Search),
		"city":         strings.ToLower(s.City),
		"propertyType": string(s.PropertyType),
		"limit":        strconv.Itoa(s.Limit),
	}
	if s.MinPrice != nil {
		m["minPrice"] = strconv.FormatInt(*s.MinPrice, 10)
	}
	if s.MaxPrice != nil {
		m["maxPrice"] = strconv.FormatInt(*s.MaxPrice, 10)
	}
	if s.Bedrooms != nil {
		m["bedrooms"] = strconv.Itoa(*s.Bedrooms)
	}
	if s.Bathrooms != nil {
		m["bathrooms"] = strconv.Itoa(*s.Bathrooms)
	}
	return m
}

// parsePriceRange accepts "min-max" and "min+".
func parsePriceRange(raw string) (*int64, *int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, false
	}
	if strings.HasSuffix(raw, "+") {
		min, ok := parseAmount(strings.TrimSuffix(raw, "+"))
		if !ok {
			return nil, nil, false
		}
		return &min, nil, true
	}
	lo, hi, found := strings.Cut(raw, "-")
	if !found {
		return nil, nil, false
	}
	min, okMin := parseAmount(lo)
	max, okMax := parseAmount(hi)
	if !okMin || !okMax {
		return nil, nil, false
	}
	return &min, &max, true
}

// parseAmount tolerates "$" and thousands separators.
func parseAmount(raw string) (int64, bool) {
	raw = strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func parseLowerBound(raw string) *int {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "+")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// PredicateSet WHERE clauses joined with AND, with $n placeholders
// numbered in the order args were bound.
type PredicateSet struct {
	Where []string
	Args  []any
}

// bind appends v and returns its placeholder.
func (p *PredicateSet) bind(v any) string {
	p.Args = append(p.Args, v)
	return fmt.Sprintf("$%d", len(p.Args))
}

func (p *PredicateSet) add(clause string) {
	p.Where = append(p.Where, clause)
}

// Clause the AND-joined predicates, or TRUE when empty.
func (p PredicateSet) Clause() string {
	if len(p.Where) == 0 {
		return "TRUE"
	}
	return strings.Join(p.Where, " AND ")
}

// bedroomPrefixSpan how many consecutive leading numbers the CRM bedroom
// filter accepts. Bedrooms is text ("3+1"), so "at least N" becomes
// LIKE 'N%' OR ... OR LIKE 'N+9%'. 20+ bedrooms on a query for 3 is missed.
const bedroomPrefixSpan = 10

// BedroomPrefixPatterns LIKE patterns approximating bedrooms >= n on text.
func BedroomPrefixPatterns(n int) []string {
	patterns := make([]string, 0, bedroomPrefixSpan)
	for i := n; i < n+bedroomPrefixSpan; i++ {
		patterns = append(patterns, strconv.Itoa(i)+"%")
	}
	return patterns
}

// mlsTypeRules ILIKE patterns on the trimmed feed PropertyType, in the
// precedence order transformer.MapPropertyType uses: a listing belongs to
// the first rule it matches.
var mlsTypeRules = []struct {
	t        domain.PropertyType
	patterns []string
}{
	{domain.TypeTownhouse, []string{"%town%", "%twnhouse%", "row house"}},
	{domain.TypeCondo, []string{"%condo%", "%apartment%", "%co-op%"}},
	{domain.TypeLot, []string{"%land%", "%lot%"}},
	{domain.TypeMultiRes, []string{"%multi%", "%plex%"}},
	{domain.TypeDetached, []string{"%detached%", "%single family%", "link", "house"}},
}

// MLSTypePatterns patterns a feed type must match for t, and the patterns
// of higher-precedence types it must not match.
func MLSTypePatterns(t domain.PropertyType) (include, exclude []string) {
	for _, r := range mlsTypeRules {
		if r.t == t {
			return r.patterns, exclude
		}
		exclude = append(exclude, r.patterns...)
	}
	return nil, nil
}

// escapeLike escapes LIKE wildcards in user input (backslash is the default escape).
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// mlsPriceExpr list_price is a numeric string in the feed; strip anything
// that isn't a digit or dot so stray "$" or "," don't break the cast.
const mlsPriceExpr = `NULLIF(regexp_replace(l.list_price, '[^0-9.]', '', 'g'), '')::numeric`

// BuildCRMPredicates predicates against properties aliased as p.
func BuildCRMPredicates(s PropertySearch) PredicateSet {
	var ps PredicateSet
	ps.add("p.status <> 'archived'")

	if s.Search != "" {
		ph := ps.bind("%" + escapeLike(s.Search) + "%")
		ps.add(fmt.Sprintf("(p.address ILIKE %[1]s OR p.city ILIKE %[1]s OR p.postal_code ILIKE %[1]s OR p.description ILIKE %[1]s)", ph))
	}
	if s.City != "" {
		ps.add("LOWER(p.city) = LOWER(" + ps.bind(s.City) + ")")
	}
	if s.MinPrice != nil {
		ps.add("p.price >= " + ps.bind(*s.MinPrice))
	}
	if s.MaxPrice != nil {
		ps.add("p.price <= " + ps.bind(*s.MaxPrice))
	}
	if s.Bedrooms != nil {
		ps.add("p.bedrooms LIKE ANY(" + ps.bind(pq.Array(BedroomPrefixPatterns(*s.Bedrooms))) + ")")
	}
	if s.Bathrooms != nil {
		ps.add("p.bathrooms >= " + ps.bind(*s.Bathrooms))
	}
	if s.PropertyType != "" {
		ps.add("p.property_type = " + ps.bind(string(s.PropertyType)))
	}
	return ps
}

// BuildMLSPredicates predicates against mls_listings aliased as l.
func BuildMLSPredicates(s PropertySearch) PredicateSet {
	var ps PredicateSet
	ps.add("l.standard_status = 'Active'")
	ps.add("l.list_price IS NOT NULL")
	ps.add("l.city IS NOT NULL")

	if s.Search != "" {
		ph := ps.bind("%" + escapeLike(s.Search) + "%")
		ps.add(fmt.Sprintf("(l.unparsed_address ILIKE %[1]s OR l.formatted_address ILIKE %[1]s OR l.city ILIKE %[1]s OR l.postal_code ILIKE %[1]s OR l.public_remarks ILIKE %[1]s)", ph))
	}
	if s.City != "" {
		ps.add("LOWER(l.city) = LOWER(" + ps.bind(s.City) + ")")
	}
	if s.MinPrice != nil {
		ps.add(mlsPriceExpr + " >= " + ps.bind(*s.MinPrice))
	}
	if s.MaxPrice != nil {
		ps.add(mlsPriceExpr + " <= " + ps.bind(*s.MaxPrice))
	}
	if s.Bedrooms != nil {
		ps.add("l.bedrooms_total >= " + ps.bind(*s.Bedrooms))
	}
	if s.Bathrooms != nil {
		ps.add("l.bathrooms_total_integer >= " + ps.bind(*s.Bathrooms))
	}
	if s.PropertyType != "" {
		if include, exclude := MLSTypePatterns(s.PropertyType); len(include) > 0 {
			ps.add("TRIM(l.property_type) ILIKE ANY(" + ps.bind(pq.Array(include)) + ")")
			if len(exclude) > 0 {
				ps.add("NOT TRIM(l.property_type) ILIKE ANY(" + ps.bind(pq.Array(exclude)) + ")")
			}
		}
	}
	return ps
}

// AddressSearchType how the address query is matched.
type AddressSearchType string

const (
	AddressExact  AddressSearchType = "exact"
	AddressPrefix AddressSearchType = "prefix"
	AddressFuzzy  AddressSearchType = "fuzzy"
)

// ParseAddressSearchType unknown or empty values fall back to fuzzy.
func ParseAddressSearchType(raw string) AddressSearchType {
	switch t := AddressSearchType(strings.ToLower(strings.TrimSpace(raw))); t {
	case AddressExact, AddressPrefix, AddressFuzzy:
		return t
	}
	return AddressFuzzy
}

// Radius circle filter in kilometres.
type Radius struct {
	Km  float64
	Lat float64
	Lng float64
}

// AddressQuery /api/search/addresses filters.
type AddressQuery struct {
	Query      string
	City       string
	Province   string
	PostalCode string
	Radius     *Radius
	SearchType AddressSearchType
	Limit      int
	Offset     int
}

// mlsStreetExpr street parts joined by spaces, NULL when all are blank.
const mlsStreetExpr = `NULLIF(CONCAT_WS(' ', NULLIF(TRIM(l.street_number), ''), NULLIF(TRIM(l.street_name), ''), NULLIF(TRIM(l.street_suffix), '')), '')`

// mlsAddressExpr the listing's display address in SQL, chosen the same way
// as transformer.DisplayAddress: formatted address only when standardized,
// then the raw feed string, then "unit - street parts".
const mlsAddressExpr = `(CASE WHEN l.address_standardized AND TRIM(COALESCE(l.formatted_address, '')) <> '' THEN TRIM(l.formatted_address)` +
	` WHEN TRIM(COALESCE(l.unparsed_address, '')) <> '' THEN TRIM(l.unparsed_address)` +
	` ELSE COALESCE(CONCAT_WS(' - ', CASE WHEN ` + mlsStreetExpr + ` IS NOT NULL THEN NULLIF(TRIM(l.unit_number), '') END, ` + mlsStreetExpr + `), '') END)`

// earthRadiusKm used by the Haversine expression.
const earthRadiusKm = 6371.0

// BuildAddressPredicates predicates against mls_listings aliased as l.
func BuildAddressPredicates(q AddressQuery) PredicateSet {
	var ps PredicateSet

	if query := strings.TrimSpace(q.Query); query != "" {
		switch q.SearchType {
		case AddressExact:
			ps.add("LOWER(" + mlsAddressExpr + ") = LOWER(" + ps.bind(query) + ")")
		case AddressPrefix:
			ps.add(mlsAddressExpr + " ILIKE " + ps.bind(escapeLike(query)+"%"))
		default:
			ph := ps.bind("%" + escapeLike(query) + "%")
			ps.add(fmt.Sprintf("(%[2]s ILIKE %[1]s OR l.unparsed_address ILIKE %[1]s OR l.street_name ILIKE %[1]s OR l.city ILIKE %[1]s OR l.postal_code ILIKE %[1]s)", ph, mlsAddressExpr))
		}
	}
	if q.City != "" {
		ps.add("LOWER(l.city) = LOWER(" + ps.bind(q.City) + ")")
	}
	if q.Province != "" {
		ps.add("LOWER(l.state_or_province) = LOWER(" + ps.bind(q.Province) + ")")
	}
	if pc := normalizePostalCode(q.PostalCode); pc != "" {
		ps.add("REPLACE(UPPER(l.postal_code), ' ', '') LIKE " + ps.bind(escapeLike(pc)+"%"))
	}
	if r := q.Radius; r != nil {
		lat, lng, km := ps.bind(r.Lat), ps.bind(r.Lng), ps.bind(r.Km)
		ps.add("l.latitude IS NOT NULL AND l.longitude IS NOT NULL")
		ps.add(fmt.Sprintf(
			"(%g * acos(LEAST(1.0, cos(radians(%[2]s)) * cos(radians(l.latitude)) * cos(radians(l.longitude) - radians(%[3]s)) + sin(radians(%[2]s)) * sin(radians(l.latitude))))) <= %[4]s",
			earthRadiusKm, lat, lng, km))
	}
	return ps
}

func normalizePostalCode(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
}
