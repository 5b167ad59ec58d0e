package service

import (
	"context"
	"fmt"
	"sync"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"
)

type fakePropertiesRepo struct {
	mu        sync.Mutex
	rows      []*domain.Property
	searchErr error
	searches  int
	created   []*domain.Property
	updated   []*domain.Property
	archived  []string
}

var _ repository.PropertiesRepository = (*fakePropertiesRepo)(nil)

func (f *fakePropertiesRepo) SearchProperties(ctx context.Context, s repository.PropertySearch) ([]*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.rows, nil
}

func (f *fakePropertiesRepo) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	for _, p := range f.rows {
		if p.ID == id && p.Status != domain.StatusArchived {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("property %s: %w", id, repository.ErrNotFound)
}

func (f *fakePropertiesRepo) ListProperties(ctx context.Context, filter repository.PropertiesFilter, limit, offset int) ([]*domain.Property, int, error) {
	if offset >= len(f.rows) {
		return nil, len(f.rows), nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], len(f.rows), nil
}

func (f *fakePropertiesRepo) CreateProperty(ctx context.Context, p *domain.Property) error {
	f.created = append(f.created, p)
	f.rows = append(f.rows, p)
	return nil
}

func (f *fakePropertiesRepo) UpdateProperty(ctx context.Context, p *domain.Property) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakePropertiesRepo) ArchiveProperty(ctx context.Context, id string) error {
	for _, p := range f.rows {
		if p.ID == id {
			f.archived = append(f.archived, id)
			return nil
		}
	}
	return fmt.Errorf("property %s: %w", id, repository.ErrNotFound)
}

type fakeListingsRepo struct {
	mu          sync.Mutex
	listings    []*domain.MLSListing
	media       map[string][]domain.MLSMedia
	searchErr   error
	mediaErr    error
	total       int
	suggestions map[domain.SuggestionType][]domain.Suggestion
	suggestErr  map[domain.SuggestionType]error
	lastAddress repository.AddressQuery
}

var _ repository.ListingsRepository = (*fakeListingsRepo)(nil)

func (f *fakeListingsRepo) SearchListings(ctx context.Context, s repository.PropertySearch) ([]*domain.MLSListing, map[string][]domain.MLSMedia, error) {
	if f.searchErr != nil {
		return nil, nil, f.searchErr
	}
	return f.listings, f.media, nil
}

func (f *fakeListingsRepo) GetListing(ctx context.Context, key string) (*domain.MLSListing, []domain.MLSMedia, error) {
	for _, l := range f.listings {
		if l.ListingKey == key {
			return l, f.media[key], nil
		}
	}
	return nil, nil, fmt.Errorf("listing %s: %w", key, repository.ErrNotFound)
}

func (f *fakeListingsRepo) ListMedia(ctx context.Context, keys []string) (map[string][]domain.MLSMedia, error) {
	if f.mediaErr != nil {
		return nil, f.mediaErr
	}
	if f.media == nil {
		return map[string][]domain.MLSMedia{}, nil
	}
	return f.media, nil
}

func (f *fakeListingsRepo) SearchAddresses(ctx context.Context, q repository.AddressQuery) ([]*domain.MLSListing, int, error) {
	f.lastAddress = q
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.listings, f.total, nil
}

func (f *fakeListingsRepo) SuggestValues(ctx context.Context, kind domain.SuggestionType, q string, limit int) ([]domain.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.suggestErr[kind]; err != nil {
		return nil, err
	}
	return f.suggestions[kind], nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeLeadsRepo struct {
	leads []*domain.Lead
	err   error
}

func (f *fakeLeadsRepo) CreateLead(ctx context.Context, lead *domain.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.leads = append(f.leads, lead)
	return nil
}

func (f *fakeLeadsRepo) ListLeads(ctx context.Context, kind domain.LeadKind, limit, offset int) ([]*domain.Lead, int, error) {
	return f.leads, len(f.leads), nil
}

type fakePublisher struct {
	published []*domain.Lead
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, lead *domain.Lead) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.published = append(p.published, lead)
	return "1-0", nil
}

type fakePostsRepo struct {
	posts map[string]*domain.BlogPost
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{posts: map[string]*domain.BlogPost{}}
}

func (f *fakePostsRepo) ListPublished(ctx context.Context, limit, offset int) ([]*domain.BlogPost, int, error) {
	var out []*domain.BlogPost
	for _, p := range f.posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakePostsRepo) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	for _, p := range f.posts {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return nil, fmt.Errorf("post %s: %w", slug, repository.ErrNotFound)
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	if p, ok := f.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("post %s: %w", id, repository.ErrNotFound)
}

func (f *fakePostsRepo) CreatePost(ctx context.Context, post *domain.BlogPost) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostsRepo) UpdatePost(ctx context.Context, post *domain.BlogPost) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostsRepo) DeletePost(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return fmt.Errorf("post %s: %w", id, repository.ErrNotFound)
	}
	delete(f.posts, id)
	return nil
}
