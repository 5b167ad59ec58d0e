package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"realtor-site/internal/domain"

	"github.com/lib/pq"
)

// PostgresListingsRepository read side of the replicated MLS tables.
type PostgresListingsRepository struct {
	db *sql.DB
}

func NewPostgresListingsRepository(db *sql.DB) *PostgresListingsRepository {
	return &PostgresListingsRepository{db: db}
}

var _ ListingsRepository = (*PostgresListingsRepository)(nil)

// Feed text columns are nullable; COALESCE keeps scanning into plain strings.
const listingColumns = `
	l.listing_key,
	COALESCE(l.unparsed_address, ''),
	COALESCE(l.street_number, ''),
	COALESCE(l.street_name, ''),
	COALESCE(l.street_suffix, ''),
	COALESCE(l.unit_number, ''),
	COALESCE(l.formatted_address, ''),
	l.address_standardized,
	COALESCE(l.city, ''),
	COALESCE(l.state_or_province, ''),
	COALESCE(l.postal_code, ''),
	COALESCE(l.property_type, ''),
	l.bedrooms_total,
	l.bathrooms_total_integer,
	l.living_area,
	COALESCE(l.list_price, ''),
	COALESCE(l.public_remarks, ''),
	COALESCE(l.standard_status, ''),
	l.list_date,
	l.latitude,
	l.longitude`

func scanListing(row rowScanner) (*domain.MLSListing, error) {
	var (
		l          domain.MLSListing
		beds, bath sql.NullInt64
		area       sql.NullFloat64
		listDate   sql.NullTime
		lat, lng   sql.NullFloat64
	)
	err := row.Scan(
		&l.ListingKey, &l.UnparsedAddress, &l.StreetNumber, &l.StreetName,
		&l.StreetSuffix, &l.UnitNumber, &l.FormattedAddress, &l.AddressStandardized,
		&l.City, &l.StateOrProvince, &l.PostalCode, &l.PropertyType,
		&beds, &bath, &area, &l.ListPrice, &l.PublicRemarks, &l.StandardStatus,
		&listDate, &lat, &lng,
	)
	if err != nil {
		return nil, err
	}
	l.BedroomsTotal = nullIntPtr(beds)
	l.BathroomsTotal = nullIntPtr(bath)
	l.LivingArea = nullFloatPtr(area)
	l.ListDate = nullTimePtr(listDate)
	l.Latitude = nullFloatPtr(lat)
	l.Longitude = nullFloatPtr(lng)
	return &l, nil
}

func (r *PostgresListingsRepository) queryListings(ctx context.Context, query string, args ...any) ([]*domain.MLSListing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MLSListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresListingsRepository) SearchListings(ctx context.Context, s PropertySearch) ([]*domain.MLSListing, map[string][]domain.MLSMedia, error) {
	ps := BuildMLSPredicates(s)
	limit := s.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM mls_listings l WHERE %s
		ORDER BY l.list_date DESC NULLS LAST, l.listing_key
		LIMIT %s`, listingColumns, ps.Clause(), ps.bind(limit))

	listings, err := r.queryListings(ctx, query, ps.Args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search listings: %w", err)
	}
	if len(listings) == 0 {
		return listings, map[string][]domain.MLSMedia{}, nil
	}

	keys := make([]string, len(listings))
	for i, l := range listings {
		keys[i] = l.ListingKey
	}
	media, err := r.ListMedia(ctx, keys)
	if err != nil {
		return nil, nil, err
	}
	return listings, media, nil
}

func (r *PostgresListingsRepository) GetListing(ctx context.Context, listingKey string) (*domain.MLSListing, []domain.MLSMedia, error) {
	query := `SELECT ` + listingColumns + ` FROM mls_listings l WHERE l.listing_key = $1`
	l, err := scanListing(r.db.QueryRowContext(ctx, query, listingKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("listing %s: %w", listingKey, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to get listing: %w", err)
	}
	media, err := r.ListMedia(ctx, []string{listingKey})
	if err != nil {
		return nil, nil, err
	}
	return l, media[listingKey], nil
}

// ListMedia one query for all keys, rows ordered by display_order per listing.
func (r *PostgresListingsRepository) ListMedia(ctx context.Context, listingKeys []string) (map[string][]domain.MLSMedia, error) {
	out := make(map[string][]domain.MLSMedia, len(listingKeys))
	if len(listingKeys) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT media_key, listing_key, media_url, is_preferred, display_order
		FROM mls_media
		WHERE listing_key = ANY($1)
		ORDER BY listing_key, display_order, media_key
	`, pq.Array(listingKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.MLSMedia
		if err := rows.Scan(&m.MediaKey, &m.ListingKey, &m.URL, &m.IsPreferred, &m.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		out[m.ListingKey] = append(out[m.ListingKey], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media: %w", err)
	}
	return out, nil
}

func (r *PostgresListingsRepository) SearchAddresses(ctx context.Context, q AddressQuery) ([]*domain.MLSListing, int, error) {
	ps := BuildAddressPredicates(q)
	where := ps.Clause()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mls_listings l WHERE `+where, ps.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count addresses: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM mls_listings l WHERE %s
		ORDER BY l.list_date DESC NULLS LAST, l.listing_key
		LIMIT %s OFFSET %s`, listingColumns, where, ps.bind(q.Limit), ps.bind(q.Offset))

	listings, err := r.queryListings(ctx, query, ps.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search addresses: %w", err)
	}
	return listings, total, nil
}

// suggestionColumns grouped column per suggestion kind.
var suggestionColumns = map[domain.SuggestionType]string{
	domain.SuggestionCity:         "l.city",
	domain.SuggestionPropertyType: "l.property_type",
	domain.SuggestionStreet:       "l.street_name",
}

func (r *PostgresListingsRepository) SuggestValues(ctx context.Context, kind domain.SuggestionType, q string, limit int) ([]domain.Suggestion, error) {
	col, ok := suggestionColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown suggestion type %q", kind)
	}
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*)
		FROM mls_listings l
		WHERE l.standard_status = 'Active' AND %[1]s IS NOT NULL AND %[1]s <> '' AND %[1]s ILIKE $1
		GROUP BY %[1]s
		ORDER BY COUNT(*) DESC, %[1]s
		LIMIT $2
	`, col)

	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(q)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest %s: %w", kind, err)
	}
	defer rows.Close()

	out := []domain.Suggestion{}
	for rows.Next() {
		s := domain.Suggestion{Type: kind}
		if err := rows.Scan(&s.Value, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suggestions: %w", err)
	}
	return out, nil
}
