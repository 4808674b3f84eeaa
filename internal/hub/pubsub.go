package hub

import (
	"context"
	"encoding/json"

	"grievanceportal/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventSource is a Redis subscription. *redis.PubSub satisfies it.
type EventSource interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// ListenEvents broadcasts every event received on src until ctx is
// cancelled or the subscription ends. It closes src on return.
func (m *Manager) ListenEvents(ctx context.Context, src EventSource) {
	defer src.Close()

	ch := src.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.GrievanceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				m.logger.Warn("discarding malformed grievance event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			m.Broadcast(event)
		}
	}
}
