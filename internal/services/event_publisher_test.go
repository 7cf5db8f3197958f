package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xelaConnect/internal/enums"
	redisModels "xelaConnect/internal/models/redis"
)

func TestLocalEventPublisher_DeliversToEverySubscriber(t *testing.T) {
	publisher := NewLocalEventPublisher()
	var first, second []redisModels.RedisPublishedMessage
	require.NoError(t, publisher.Subscribe(context.Background(), func(event redisModels.RedisPublishedMessage) {
		first = append(first, event)
	}))
	require.NoError(t, publisher.Subscribe(context.Background(), func(event redisModels.RedisPublishedMessage) {
		second = append(second, event)
	}))

	event := redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
		ConversationID: "u1:u42",
		Recipients:     []string{"u1", "u42"},
	}
	require.NoError(t, publisher.Publish(context.Background(), event))

	assert.Equal(t, []redisModels.RedisPublishedMessage{event}, first)
	assert.Equal(t, []redisModels.RedisPublishedMessage{event}, second)
	assert.NoError(t, publisher.Close())
}

func TestLocalEventPublisher_SubscribeDuringPublish(t *testing.T) {
	publisher := NewLocalEventPublisher()
	calls := 0
	require.NoError(t, publisher.Subscribe(context.Background(), func(redisModels.RedisPublishedMessage) {
		calls++
		// Handlers added while publishing only see later events
		publisher.Subscribe(context.Background(), func(redisModels.RedisPublishedMessage) { calls++ })
	}))

	require.NoError(t, publisher.Publish(context.Background(), redisModels.RedisPublishedMessage{}))
	assert.Equal(t, 1, calls)
}
