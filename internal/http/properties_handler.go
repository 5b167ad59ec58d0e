package httpapi

import (
	"context"
	"net/http"
	"strings"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PropertySearcher merged CRM + MLS search.
type PropertySearcher interface {
	Search(ctx context.Context, q repository.PropertySearch) ([]domain.UnifiedProperty, error)
	Get(ctx context.Context, source domain.Source, id string) (*domain.UnifiedProperty, error)
}

// PropertiesHandler public property search and detail.
type PropertiesHandler struct {
	search       PropertySearcher
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

func NewPropertiesHandler(search PropertySearcher, defaultLimit, maxLimit int, logger *zap.Logger) *PropertiesHandler {
	return &PropertiesHandler{
		search:       search,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// List GET /api/properties. Answers with a bare JSON array.
func (h *PropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := repository.ParsePropertySearch(r.URL.Query(), h.defaultLimit, h.maxLimit)
	items, err := h.search.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, h.logger, "SearchProperties", err)
		return
	}
	if items == nil {
		items = []domain.UnifiedProperty{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get GET /api/properties/{id}?source=crm|mls
func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	source := domain.Source(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("source"))))
	u, err := h.search.Get(r.Context(), source, id)
	if err != nil {
		writeServiceError(w, h.logger, "GetProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
