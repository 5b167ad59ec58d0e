package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonmqtt "realtor-site/common/mqtt"

	"go.uber.org/zap"
)

// Subscriber the part of the broker client the listener needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler commonmqtt.MessageHandler) error
}

// CacheInvalidator drops every cached property search.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// MLSUpdateMessage published by the replication job after each sync batch.
// Every field is informational; any message on the topic invalidates.
type MLSUpdateMessage struct {
	ListingKeys []string  `json:"listingKeys"`
	SyncedAt    time.Time `json:"syncedAt"`
}

// MLSUpdateListener clears the search cache when the MLS replica changes.
type MLSUpdateListener struct {
	cache   CacheInvalidator
	timeout time.Duration
	logger  *zap.Logger
}

func NewMLSUpdateListener(cache CacheInvalidator, logger *zap.Logger) *MLSUpdateListener {
	return &MLSUpdateListener{cache: cache, timeout: 5 * time.Second, logger: logger}
}

// Start subscribes to topic; messages are handled on the client's goroutine.
func (l *MLSUpdateListener) Start(sub Subscriber, topic string, qos byte) error {
	if err := sub.Subscribe(topic, qos, l.HandleMessage); err != nil {
		return err
	}
	l.logger.Info("Listening for MLS updates", zap.String("topic", topic))
	return nil
}

func (l *MLSUpdateListener) HandleMessage(topic string, payload []byte) error {
	var msg MLSUpdateMessage
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &msg); err != nil {
			l.logger.Debug("MLS update payload not JSON, invalidating anyway",
				zap.String("topic", topic), zap.Int("payload_size", len(payload)))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	if err := l.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("mls update on %s: %w", topic, err)
	}
	l.logger.Info("Search cache invalidated by MLS update",
		zap.String("topic", topic),
		zap.Int("listing_count", len(msg.ListingKeys)),
	)
	return nil
}
