package store

import (
	"context"
	"fmt"

	"realtor-site/common/redis"
	"realtor-site/internal/domain"
)

// LeadEvent payload published for each captured lead.
type LeadEvent struct {
	Type string       `json:"type"` // lead.created
	Lead *domain.Lead `json:"lead"`
}

// LeadStream appends lead events to a Redis stream for downstream CRM sync.
type LeadStream struct {
	client *redis.Client
	stream string
}

func NewLeadStream(client *redis.Client, stream string) *LeadStream {
	return &LeadStream{client: client, stream: stream}
}

// Publish returns the stream entry ID.
func (s *LeadStream) Publish(ctx context.Context, lead *domain.Lead) (string, error) {
	id, err := redis.PublishJSONToStream(ctx, s.client, s.stream, LeadEvent{Type: "lead.created", Lead: lead})
	if err != nil {
		return "", fmt.Errorf("failed to publish lead %s: %w", lead.ID, err)
	}
	return id, nil
}
