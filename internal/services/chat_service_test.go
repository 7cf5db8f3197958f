package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xelaConnect/internal/enums"
	"xelaConnect/internal/errs"
	redisModels "xelaConnect/internal/models/redis"
	socketModels "xelaConnect/internal/models/socket"
	"xelaConnect/internal/repositories"
	"xelaConnect/internal/validators"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []redisModels.RedisPublishedMessage
	err    error
}

func (rp *recordingPublisher) Publish(_ context.Context, event redisModels.RedisPublishedMessage) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.events = append(rp.events, event)
	return rp.err
}

func (rp *recordingPublisher) Subscribe(context.Context, func(redisModels.RedisPublishedMessage)) error {
	return nil
}

func (rp *recordingPublisher) Close() error { return nil }

func newSeededChatService(t *testing.T, publisher *recordingPublisher) *ChatService {
	t.Helper()
	store := repositories.NewChatRepository()
	require.NoError(t, repositories.SeedMockData(context.Background(), store))
	return NewChatService(store, publisher, zerolog.Nop())
}

func TestChatService_GetConversation(t *testing.T) {
	service := newSeededChatService(t, &recordingPublisher{})

	conversation, err := service.GetConversation(context.Background(), "u1", "u7")

	require.NoError(t, err)
	assert.Equal(t, "u1:u7", conversation.ConversationID)
	assert.Equal(t, "u1", conversation.UserID)
	assert.Equal(t, "Sam Patel", conversation.OtherUser.Name)
	require.Len(t, conversation.Messages, 3)
	assert.Equal(t, "u7", conversation.Messages[0].SenderID)
	assert.True(t, conversation.Messages[0].Timestamp.Before(conversation.Messages[2].Timestamp))
	require.NotNil(t, conversation.LastMessageAt)
	assert.Equal(t, conversation.Messages[2].Timestamp, *conversation.LastMessageAt)
}

func TestChatService_GetConversationMarksRead(t *testing.T) {
	service := newSeededChatService(t, &recordingPublisher{})

	first, err := service.GetConversation(context.Background(), "u1", "u7")
	require.NoError(t, err)
	assert.False(t, first.Messages[0].Read)

	second, err := service.GetConversation(context.Background(), "u1", "u7")
	require.NoError(t, err)
	assert.True(t, second.Messages[0].Read)
	// u1's own message is read only when u7 opens the thread
	assert.False(t, second.Messages[1].Read)
}

func TestChatService_EmptyConversation(t *testing.T) {
	service := newSeededChatService(t, &recordingPublisher{})

	conversation, err := service.GetConversation(context.Background(), "u1", "u42")

	require.NoError(t, err)
	assert.NotNil(t, conversation.Messages)
	assert.Empty(t, conversation.Messages)
	assert.Nil(t, conversation.LastMessageAt)
}

func TestChatService_ConversationErrors(t *testing.T) {
	service := newSeededChatService(t, &recordingPublisher{})

	_, err := service.GetConversation(context.Background(), "u1", "nobody")
	assert.ErrorIs(t, err, errs.ErrConversationNotFound)

	_, err = service.GetConversation(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, errs.ErrSelfConversation)

	_, err = service.GetConversation(context.Background(), "u1", " ")
	assert.ErrorIs(t, err, errs.ErrEmptyPartnerID)
}

func TestChatService_SendMessage(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newSeededChatService(t, publisher)

	message, err := service.SendMessage(context.Background(), "u1", "u42", "  hello Jordan ")

	require.NoError(t, err)
	assert.NotEmpty(t, message.MessageID)
	assert.Equal(t, "u1", message.SenderID)
	assert.Equal(t, "hello Jordan", message.Content)
	assert.False(t, message.Timestamp.IsZero())

	conversation, err := service.GetConversation(context.Background(), "u42", "u1")
	require.NoError(t, err)
	require.Len(t, conversation.Messages, 1)
	assert.Equal(t, message.MessageID, conversation.Messages[0].MessageID)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, enums.SOCKET_EVENT_NEW_MESSAGE, event.Event)
	assert.Equal(t, "u1:u42", event.ConversationID)
	assert.ElementsMatch(t, []string{"u1", "u42"}, event.Recipients)
	assert.Equal(t, socketModels.NewMessagePayload{SenderID: "u1", RecipientID: "u42"}, event.Payload)
}

func TestChatService_SendMessageRejected(t *testing.T) {
	publisher := &recordingPublisher{}
	service := newSeededChatService(t, publisher)

	_, err := service.SendMessage(context.Background(), "u1", "u42", " \n ")
	assert.ErrorIs(t, err, errs.ErrEmptyMessage)

	_, err = service.SendMessage(context.Background(), "u1", "u42", strings.Repeat("a", validators.MaxMessageLength+1))
	assert.ErrorIs(t, err, errs.ErrMessageTooLong)

	_, err = service.SendMessage(context.Background(), "u1", "ghost", "hi")
	assert.ErrorIs(t, err, errs.ErrConversationNotFound)

	assert.Empty(t, publisher.events)
}

func TestChatService_PublishFailureStillStores(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("redis down")}
	service := newSeededChatService(t, publisher)

	_, err := service.SendMessage(context.Background(), "u1", "u42", "hello")
	require.NoError(t, err)

	conversation, err := service.GetConversation(context.Background(), "u1", "u42")
	require.NoError(t, err)
	assert.Len(t, conversation.Messages, 1)
}
