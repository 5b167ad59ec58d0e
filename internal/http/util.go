package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"realtor-site/internal/repository"
	"realtor-site/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorBody{Error: message})
}

// writeServiceError maps service errors onto status codes. Validation
// messages go back verbatim, upstream failures keep an inferred status;
// anything unexpected is logged and hidden.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var upstream *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &upstream) && upstream.Status != http.StatusInternalServerError:
		logger.Error(op+" failed", zap.Int("status", upstream.Status), zap.Error(err))
		writeError(w, upstream.Status, err.Error())
	default:
		logger.Error(op+" failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// page limit/offset from the query string, limit clamped to [1, max].
func page(r *http.Request, def, max int) (int, int) {
	limit := parseInt(r.URL.Query().Get("limit"), def)
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	offset := parseInt(r.URL.Query().Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// decodeBody reads the JSON body or answers 400 itself.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readBodyJSON(r, maxBodyBytes, out); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
