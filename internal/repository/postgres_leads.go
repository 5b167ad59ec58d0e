package repository

import (
	"context"
	"database/sql"
	"fmt"

	"realtor-site/internal/domain"
)

// PostgresLeadsRepository leads table.
type PostgresLeadsRepository struct {
	db *sql.DB
}

func NewPostgresLeadsRepository(db *sql.DB) *PostgresLeadsRepository {
	return &PostgresLeadsRepository{db: db}
}

var _ LeadsRepository = (*PostgresLeadsRepository)(nil)

func (r *PostgresLeadsRepository) CreateLead(ctx context.Context, lead *domain.Lead) error {
	query := `
		INSERT INTO leads (id, kind, name, email, phone, message, property_id, property_source, preferred_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		lead.ID, string(lead.Kind), lead.Name, lead.Email, lead.Phone, lead.Message,
		lead.PropertyID, string(lead.PropertySource), lead.PreferredTime,
	).Scan(&lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// ListLeads newest first; empty kind lists all.
func (r *PostgresLeadsRepository) ListLeads(ctx context.Context, kind domain.LeadKind, limit, offset int) ([]*domain.Lead, int, error) {
	where := "TRUE"
	args := []any{}
	if kind != "" {
		where = "kind = $1"
		args = append(args, string(kind))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, kind, name, email, phone, message, property_id, property_source, preferred_time, created_at
		FROM leads
		WHERE %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var out []*domain.Lead
	for rows.Next() {
		var (
			l         domain.Lead
			preferred sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.Kind, &l.Name, &l.Email, &l.Phone, &l.Message,
			&l.PropertyID, &l.PropertySource, &preferred, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead: %w", err)
		}
		l.PreferredTime = nullTimePtr(preferred)
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate leads: %w", err)
	}
	return out, total, nil
}
