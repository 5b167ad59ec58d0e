package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"realtor-site/internal/domain"
)

// PostgresPropertiesRepository CRM store on properties + property_images.
type PostgresPropertiesRepository struct {
	db *sql.DB
}

func NewPostgresPropertiesRepository(db *sql.DB) *PostgresPropertiesRepository {
	return &PostgresPropertiesRepository{db: db}
}

var _ PropertiesRepository = (*PostgresPropertiesRepository)(nil)

const propertyColumns = `
	p.id, p.status, p.address, p.city, p.province, p.postal_code,
	p.property_type, p.price, p.bedrooms, p.bathrooms, p.square_feet,
	p.year_built, p.features, p.media, p.hero_image, p.description,
	p.listing_date, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProperty reads propertyColumns; extra holds trailing columns.
func scanProperty(row rowScanner, extra ...any) (*domain.Property, error) {
	var (
		p                     domain.Property
		bathrooms, sqft, year sql.NullInt64
		features, media       []byte
		hero                  sql.NullString
		listingDate           sql.NullTime
	)
	dest := []any{
		&p.ID, &p.Status, &p.Address, &p.City, &p.Province, &p.PostalCode,
		&p.PropertyType, &p.Price, &p.Bedrooms, &bathrooms, &sqft,
		&year, &features, &media, &hero, &p.Description,
		&listingDate, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Bathrooms = nullIntPtr(bathrooms)
	p.SquareFeet = nullIntPtr(sqft)
	p.YearBuilt = nullIntPtr(year)
	p.Features = decodeStringList(features)
	p.Media = decodeStringList(media)
	if hero.Valid && hero.String != "" {
		p.HeroImage = &hero.String
	}
	if listingDate.Valid {
		t := listingDate.Time
		p.ListingDate = &t
	}
	return &p, nil
}

// SearchProperties the CTE applies filters and LIMIT before the image join so
// the limit counts properties, not image rows.
func (r *PostgresPropertiesRepository) SearchProperties(ctx context.Context, s PropertySearch) ([]*domain.Property, error) {
	ps := BuildCRMPredicates(s)
	limit := s.Limit
	if limit <= 0 {
		limit = 50
	}
	limitPh := ps.bind(limit)

	query := fmt.Sprintf(`
		WITH matched AS (
			SELECT %s
			FROM properties p
			WHERE %s
			ORDER BY p.listing_date DESC NULLS LAST, p.id
			LIMIT %s
		)
		SELECT m.*, i.url
		FROM matched m
		LEFT JOIN property_images i ON i.property_id = m.id
		ORDER BY m.listing_date DESC NULLS LAST, m.id, i.sort_order
	`, propertyColumns, ps.Clause(), limitPh)

	rows, err := r.db.QueryContext(ctx, query, ps.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	var (
		out   []*domain.Property
		index = map[string]*domain.Property{}
	)
	for rows.Next() {
		var imageURL sql.NullString
		p, err := scanProperty(rows, &imageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		cur, seen := index[p.ID]
		if !seen {
			cur = p
			index[p.ID] = cur
			out = append(out, cur)
		}
		if imageURL.Valid && imageURL.String != "" {
			cur.Media = appendUnique(cur.Media, imageURL.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}

	for _, p := range out {
		if p.HeroImage == nil && len(p.Media) > 0 {
			hero := p.Media[0]
			p.HeroImage = &hero
		}
	}
	return out, nil
}

// GetProperty archived rows are reported as not found.
func (r *PostgresPropertiesRepository) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	if id == "" {
		return nil, fmt.Errorf("property %w", ErrNotFound)
	}
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id = $1 AND p.status <> 'archived'`
	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("property %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	images, err := r.listImages(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, u := range images {
		p.Media = appendUnique(p.Media, u)
	}
	if p.HeroImage == nil && len(p.Media) > 0 {
		hero := p.Media[0]
		p.HeroImage = &hero
	}
	return p, nil
}

func (r *PostgresPropertiesRepository) listImages(ctx context.Context, propertyID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT url FROM property_images WHERE property_id = $1 ORDER BY sort_order, id`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list property images: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan property image: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (r *PostgresPropertiesRepository) ListProperties(ctx context.Context, filter PropertiesFilter, limit, offset int) ([]*domain.Property, int, error) {
	where := []string{}
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, string(filter.Status))
		argIdx++
	} else if !filter.IncludeArchived {
		where = append(where, "p.status <> 'archived'")
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(p.address ILIKE $%d OR p.city ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIdx++
	}

	whereClause := "TRUE"
	if len(where) > 0 {
		whereClause = strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties p WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM properties p WHERE %s
		ORDER BY p.updated_at DESC, p.id
		LIMIT $%d OFFSET $%d`, propertyColumns, whereClause, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var out []*domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return out, total, nil
}

func (r *PostgresPropertiesRepository) CreateProperty(ctx context.Context, p *domain.Property) error {
	features, media, err := encodeLists(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO properties (
			id, status, address, city, province, postal_code, property_type,
			price, bedrooms, bathrooms, square_feet, year_built, features, media,
			hero_image, description, listing_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		p.ID, string(p.Status), p.Address, p.City, p.Province, p.PostalCode, string(p.PropertyType),
		p.Price, p.Bedrooms, p.Bathrooms, p.SquareFeet, p.YearBuilt, features, media,
		p.HeroImage, p.Description, p.ListingDate,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *PostgresPropertiesRepository) UpdateProperty(ctx context.Context, p *domain.Property) error {
	features, media, err := encodeLists(p)
	if err != nil {
		return err
	}
	query := `
		UPDATE properties SET
			status = $2, address = $3, city = $4, province = $5, postal_code = $6,
			property_type = $7, price = $8, bedrooms = $9, bathrooms = $10,
			square_feet = $11, year_built = $12, features = $13, media = $14,
			hero_image = $15, description = $16, listing_date = $17, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		p.ID, string(p.Status), p.Address, p.City, p.Province, p.PostalCode,
		string(p.PropertyType), p.Price, p.Bedrooms, p.Bathrooms,
		p.SquareFeet, p.YearBuilt, features, media,
		p.HeroImage, p.Description, p.ListingDate,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("property %s: %w", p.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update property: %w", err)
	}
	return nil
}

func (r *PostgresPropertiesRepository) ArchiveProperty(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE properties SET status = 'archived', updated_at = $2 WHERE id = $1 AND status <> 'archived'`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to archive property: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to archive property: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	return nil
}

func encodeLists(p *domain.Property) ([]byte, []byte, error) {
	features, err := json.Marshal(nonNil(p.Features))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode features: %w", err)
	}
	media, err := json.Marshal(nonNil(p.Media))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode media: %w", err)
	}
	return features, media, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// decodeStringList JSONB array of strings; anything else decodes to empty.
func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
