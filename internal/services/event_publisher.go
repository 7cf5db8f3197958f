package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	redisModels "xelaConnect/internal/models/redis"
)

type eventHandler func(redisModels.RedisPublishedMessage)

// LocalEventPublisher fans events out inside one process.
type LocalEventPublisher struct {
	mu       sync.RWMutex
	handlers []eventHandler
}

func NewLocalEventPublisher() *LocalEventPublisher {
	return &LocalEventPublisher{}
}

func (lp *LocalEventPublisher) Publish(_ context.Context, event redisModels.RedisPublishedMessage) error {
	lp.mu.RLock()
	handlers := append([]eventHandler(nil), lp.handlers...)
	lp.mu.RUnlock()

	for _, handle := range handlers {
		handle(event)
	}
	return nil
}

func (lp *LocalEventPublisher) Subscribe(_ context.Context, handle func(redisModels.RedisPublishedMessage)) error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.handlers = append(lp.handlers, handle)
	return nil
}

func (lp *LocalEventPublisher) Close() error {
	return nil
}

// RedisEventPublisher fans events out through a redis pub/sub channel so every
// service instance can reach its own socket clients.
type RedisEventPublisher struct {
	redis   *redis.Client
	channel string
	logger  zerolog.Logger
}

func NewRedisEventPublisher(redis *redis.Client, channel string, logger zerolog.Logger) *RedisEventPublisher {
	if channel == "" {
		channel = redisModels.REDIS_CHANNEL_MESSAGING
	}
	return &RedisEventPublisher{
		redis:   redis,
		channel: channel,
		logger:  logger,
	}
}

func (rp *RedisEventPublisher) Publish(ctx context.Context, event redisModels.RedisPublishedMessage) error {
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return rp.redis.Publish(ctx, rp.channel, jsonEvent).Err()
}

// Subscribe confirms the subscription and then delivers messages on a
// goroutine until ctx is done.
func (rp *RedisEventPublisher) Subscribe(ctx context.Context, handle func(redisModels.RedisPublishedMessage)) error {
	pubsub := rp.redis.Subscribe(ctx, rp.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return err
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event redisModels.RedisPublishedMessage
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					rp.logger.Warn().Err(err).Msg("error unmarshalling published event")
					continue
				}
				handle(event)
			}
		}
	}()
	return nil
}

func (rp *RedisEventPublisher) Close() error {
	return rp.redis.Close()
}
