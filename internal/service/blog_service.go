package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostInput admin create/update body. Slug defaults to a slugified title.
type PostInput struct {
	Slug       string  `json:"slug"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt"`
	BodyHTML   string  `json:"bodyHtml"`
	CoverImage *string `json:"coverImage"`
	Published  bool    `json:"published"`
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugValid   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify "Spring Market Update!" -> "spring-market-update".
func Slugify(s string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// BlogService published posts for the site, CRUD for the admin.
type BlogService struct {
	posts  repository.PostsRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewBlogService(posts repository.PostsRepository, logger *zap.Logger) *BlogService {
	return &BlogService{posts: posts, now: time.Now, logger: logger}
}

func (s *BlogService) ListPublished(ctx context.Context, limit, offset int) ([]*domain.BlogPost, int, error) {
	return s.posts.ListPublished(ctx, limit, offset)
}

// GetBySlug unpublished posts are not found.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return s.posts.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func (s *BlogService) Create(ctx context.Context, in PostInput) (*domain.BlogPost, error) {
	post := &domain.BlogPost{ID: uuid.NewString()}
	if err := s.apply(post, in); err != nil {
		return nil, err
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("Blog post created", zap.String("post_id", post.ID), zap.String("slug", post.Slug))
	return post, nil
}

func (s *BlogService) Update(ctx context.Context, id string, in PostInput) (*domain.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(post, in); err != nil {
		return nil, err
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("Blog post updated", zap.String("post_id", id), zap.Bool("published", post.Published))
	return post, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	return s.posts.DeletePost(ctx, id)
}

// apply first publish stamps PublishedAt; unpublishing keeps it.
func (s *BlogService) apply(post *domain.BlogPost, in PostInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return invalidf("title is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if !slugValid.MatchString(slug) {
		return invalidf("slug must be lowercase letters, digits and dashes")
	}

	post.Slug = slug
	post.Title = title
	post.Excerpt = strings.TrimSpace(in.Excerpt)
	post.BodyHTML = in.BodyHTML
	post.CoverImage = in.CoverImage
	post.Published = in.Published
	if in.Published && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
	return nil
}
