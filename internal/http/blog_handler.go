package httpapi

import (
	"context"
	"net/http"

	"realtor-site/internal/domain"
	"realtor-site/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BlogManager interface {
	ListPublished(ctx context.Context, limit, offset int) ([]*domain.BlogPost, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	Create(ctx context.Context, in service.PostInput) (*domain.BlogPost, error)
	Update(ctx context.Context, id string, in service.PostInput) (*domain.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

type BlogHandler struct {
	blog   BlogManager
	logger *zap.Logger
}

func NewBlogHandler(blog BlogManager, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, logger: logger}
}

// List GET /api/blog?limit=&offset=
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := page(r, 10, 50)
	posts, total, err := h.blog.ListPublished(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, "ListPosts", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(NewPage(posts, total, limit, offset)))
}

// Get GET /api/blog/{slug}
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, h.logger, "GetPost", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(post))
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	post, err := h.blog.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.logger, "CreatePost", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(post))
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	post, err := h.blog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, h.logger, "UpdatePost", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(post))
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.blog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, "DeletePost", err)
		return
	}
	writeJSON(w, http.StatusOK, Done("Post deleted"))
}
