package repository

import (
	"context"
	"errors"

	"realtor-site/internal/domain"
)

// ErrNotFound returned (wrapped) when a single-row lookup finds nothing.
var ErrNotFound = errors.New("not found")

// PropertiesRepository CRM store (properties + property_images).
type PropertiesRepository interface {
	// SearchProperties non-archived rows matching s, newest listing first, at most s.Limit.
	SearchProperties(ctx context.Context, s PropertySearch) ([]*domain.Property, error)
	GetProperty(ctx context.Context, id string) (*domain.Property, error)

	// ListProperties admin listing; archived rows included only when includeArchived.
	ListProperties(ctx context.Context, filter PropertiesFilter, limit, offset int) ([]*domain.Property, int, error)
	CreateProperty(ctx context.Context, p *domain.Property) error
	UpdateProperty(ctx context.Context, p *domain.Property) error
	// ArchiveProperty soft delete; rows are never removed.
	ArchiveProperty(ctx context.Context, id string) error
}

// PropertiesFilter admin list filter.
type PropertiesFilter struct {
	Status          domain.PropertyStatus
	Search          string
	IncludeArchived bool
}

// ListingsRepository replicated MLS store. Read-only.
type ListingsRepository interface {
	// SearchListings active listings matching s with their media keyed by listing_key.
	SearchListings(ctx context.Context, s PropertySearch) ([]*domain.MLSListing, map[string][]domain.MLSMedia, error)
	GetListing(ctx context.Context, listingKey string) (*domain.MLSListing, []domain.MLSMedia, error)
	ListMedia(ctx context.Context, listingKeys []string) (map[string][]domain.MLSMedia, error)

	// SearchAddresses any-status listings matching q plus the unpaginated total.
	SearchAddresses(ctx context.Context, q AddressQuery) ([]*domain.MLSListing, int, error)
	// SuggestValues grouped counts of one column over active listings.
	SuggestValues(ctx context.Context, kind domain.SuggestionType, q string, limit int) ([]domain.Suggestion, error)
}

// LeadsRepository leads table.
type LeadsRepository interface {
	CreateLead(ctx context.Context, lead *domain.Lead) error
	ListLeads(ctx context.Context, kind domain.LeadKind, limit, offset int) ([]*domain.Lead, int, error)
}

// PostsRepository blog_posts table.
type PostsRepository interface {
	ListPublished(ctx context.Context, limit, offset int) ([]*domain.BlogPost, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	GetByID(ctx context.Context, id string) (*domain.BlogPost, error)
	CreatePost(ctx context.Context, post *domain.BlogPost) error
	UpdatePost(ctx context.Context, post *domain.BlogPost) error
	DeletePost(ctx context.Context, id string) error
}
