package httpapi

import (
	"context"
	"net/http"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"
	"realtor-site/internal/service"

	"go.uber.org/zap"
)

type AddressSearcher interface {
	Search(ctx context.Context, q repository.AddressQuery) (*service.AddressSearchResponse, error)
}

type Suggester interface {
	Suggest(ctx context.Context, q string) ([]domain.Suggestion, error)
}

// SearchHandler address search and type-ahead suggestions over the MLS store.
type SearchHandler struct {
	addresses   AddressSearcher
	suggestions Suggester
	logger      *zap.Logger
}

func NewSearchHandler(addresses AddressSearcher, suggestions Suggester, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{addresses: addresses, suggestions: suggestions, logger: logger}
}

// Addresses GET /api/search/addresses
func (h *SearchHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	q := service.ParseAddressQuery(r.URL.Query())
	resp, err := h.addresses.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, h.logger, "SearchAddresses", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Suggestions GET /api/search/suggestions?q=
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	out, err := h.suggestions.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, h.logger, "Suggest", err)
		return
	}
	if out == nil {
		out = []domain.Suggestion{}
	}
	writeJSON(w, http.StatusOK, Ok(out))
}
