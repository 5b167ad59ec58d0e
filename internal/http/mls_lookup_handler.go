package httpapi

import (
	"context"
	"errors"
	"net/http"

	"realtor-site/internal/repository"
	"realtor-site/internal/service"

	"go.uber.org/zap"
)

type MLSLooker interface {
	Lookup(ctx context.Context, mlsNumber string) (*service.PropertyDraft, error)
}

type MLSLookupHandler struct {
	lookup MLSLooker
	logger *zap.Logger
}

func NewMLSLookupHandler(lookup MLSLooker, logger *zap.Logger) *MLSLookupHandler {
	return &MLSLookupHandler{lookup: lookup, logger: logger}
}

// Lookup GET /api/mls-lookup?mls=<id>. Upstream failures keep the status
// inferred from the MLS API error text.
func (h *MLSLookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	draft, err := h.lookup.Lookup(r.Context(), r.URL.Query().Get("mls"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Ok(draft))
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "MLS listing not found")
	default:
		status := service.UpstreamStatus(err)
		h.logger.Error("MLS lookup failed", zap.Int("status", status), zap.Error(err))
		writeError(w, status, err.Error())
	}
}
