package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"
	"realtor-site/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// crmRepo in-memory PropertiesRepository.
type crmRepo struct {
	rows []*domain.Property
	err  error
}

func (c *crmRepo) SearchProperties(ctx context.Context, s repository.PropertySearch) ([]*domain.Property, error) {
	return c.rows, c.err
}

func (c *crmRepo) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	for _, p := range c.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("property %s: %w", id, repository.ErrNotFound)
}

func (c *crmRepo) ListProperties(ctx context.Context, f repository.PropertiesFilter, limit, offset int) ([]*domain.Property, int, error) {
	return c.rows, len(c.rows), c.err
}

func (c *crmRepo) CreateProperty(ctx context.Context, p *domain.Property) error { return c.err }
func (c *crmRepo) UpdateProperty(ctx context.Context, p *domain.Property) error { return c.err }
func (c *crmRepo) ArchiveProperty(ctx context.Context, id string) error { return c.err }

// mlsRepo ListingsRepository whose every query fails with err when set.
type mlsRepo struct {
	listings []*domain.MLSListing
	err      error
}

func (m *mlsRepo) SearchListings(ctx context.Context, s repository.PropertySearch) ([]*domain.MLSListing, map[string][]domain.MLSMedia, error) {
	return m.listings, nil, m.err
}

func (m *mlsRepo) GetListing(ctx context.Context, key string) (*domain.MLSListing, []domain.MLSMedia, error) {
	return nil, nil, fmt.Errorf("listing %s: %w", key, repository.ErrNotFound)
}

func (m *mlsRepo) ListMedia(ctx context.Context, keys []string) (map[string][]domain.MLSMedia, error) {
	return map[string][]domain.MLSMedia{}, m.err
}

func (m *mlsRepo) SearchAddresses(ctx context.Context, q repository.AddressQuery) ([]*domain.MLSListing, int, error) {
	return m.listings, len(m.listings), m.err
}

func (m *mlsRepo) SuggestValues(ctx context.Context, kind domain.SuggestionType, q string, limit int) ([]domain.Suggestion, error) {
	return nil, m.err
}

type stubMailer struct {
	sent []service.Email
	err  error
}

func (s *stubMailer) Send(ctx context.Context, msg service.Email) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type stubFetcher struct {
	listing *domain.MLSListing
	err     error
}

func (s stubFetcher) FetchListing(ctx context.Context, key string) (*domain.MLSListing, []domain.MLSMedia, error) {
	return s.listing, nil, s.err
}

func do(t *testing.T, h http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func newTestRouter() *Router {
	return NewRouter(zap.NewNop())
}
