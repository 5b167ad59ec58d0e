package service

import (
	"context"
	"fmt"
	"strings"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const suggestionsPerGroup = 5

// suggestionOrder groups in output order.
var suggestionOrder = []domain.SuggestionType{
	domain.SuggestionCity,
	domain.SuggestionPropertyType,
	domain.SuggestionStreet,
}

// SuggestionService type-ahead over active MLS listings.
type SuggestionService struct {
	listings repository.ListingsRepository
	logger   *zap.Logger
}

func NewSuggestionService(listings repository.ListingsRepository, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{listings: listings, logger: logger}
}

// Suggest runs one grouped query per type concurrently and concatenates the
// groups city, propertyType, street. Values repeated across groups are kept.
// Any failing group fails the call.
func (s *SuggestionService) Suggest(ctx context.Context, q string) ([]domain.Suggestion, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.Suggestion{}, nil
	}

	groups := make([][]domain.Suggestion, len(suggestionOrder))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range suggestionOrder {
		i, kind := i, kind
		g.Go(func() error {
			out, err := s.listings.SuggestValues(gctx, kind, q, suggestionsPerGroup)
			if err != nil {
				return fmt.Errorf("suggest %s: %w", kind, err)
			}
			groups[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []domain.Suggestion{}
	for _, grp := range groups {
		out = append(out, grp...)
	}
	return out, nil
}
