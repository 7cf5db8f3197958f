package interfaces

import (
	"context"

	redisModels "xelaConnect/internal/models/redis"
)

// EventPublisher fans push events out to every service instance holding subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event redisModels.RedisPublishedMessage) error
	Subscribe(ctx context.Context, handle func(redisModels.RedisPublishedMessage)) error
	Close() error
}
