package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"realtor-site/internal/domain"
)

// PostgresPostsRepository blog_posts table.
type PostgresPostsRepository struct {
	db *sql.DB
}

func NewPostgresPostsRepository(db *sql.DB) *PostgresPostsRepository {
	return &PostgresPostsRepository{db: db}
}

var _ PostsRepository = (*PostgresPostsRepository)(nil)

const postColumns = `id, slug, title, excerpt, body_html, cover_image, published, published_at, created_at, updated_at`

func scanPost(row rowScanner) (*domain.BlogPost, error) {
	var (
		p           domain.BlogPost
		cover       sql.NullString
		publishedAt sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.BodyHTML, &cover,
		&p.Published, &publishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if cover.Valid {
		p.CoverImage = &cover.String
	}
	p.PublishedAt = nullTimePtr(publishedAt)
	return &p, nil
}

func (r *PostgresPostsRepository) ListPublished(ctx context.Context, limit, offset int) ([]*domain.BlogPost, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts WHERE published`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+postColumns+`
		FROM blog_posts
		WHERE published
		ORDER BY published_at DESC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var out []*domain.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return out, total, nil
}

func (r *PostgresPostsRepository) getOne(ctx context.Context, where string, arg any) (*domain.BlogPost, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %v: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// GetBySlug published posts only.
func (r *PostgresPostsRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return r.getOne(ctx, "slug = $1 AND published", slug)
}

func (r *PostgresPostsRepository) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PostgresPostsRepository) CreatePost(ctx context.Context, post *domain.BlogPost) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (id, slug, title, excerpt, body_html, cover_image, published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, post.ID, post.Slug, post.Title, post.Excerpt, post.BodyHTML, post.CoverImage, post.Published, post.PublishedAt,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostgresPostsRepository) UpdatePost(ctx context.Context, post *domain.BlogPost) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE blog_posts SET
			slug = $2, title = $3, excerpt = $4, body_html = $5, cover_image = $6,
			published = $7, published_at = $8, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, post.ID, post.Slug, post.Title, post.Excerpt, post.BodyHTML, post.CoverImage, post.Published, post.PublishedAt,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("post %s: %w", post.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

func (r *PostgresPostsRepository) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}
