package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"xelaConnect/internal/enums"
	"xelaConnect/internal/errs"
	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/models"
	redisModels "xelaConnect/internal/models/redis"
	socketModels "xelaConnect/internal/models/socket"
	"xelaConnect/internal/validators"
)

// ChatService is the messaging service side of a two-party conversation.
type ChatService struct {
	store     interfaces.ChatStore
	publisher interfaces.EventPublisher
	logger    zerolog.Logger
}

func NewChatService(store interfaces.ChatStore, publisher interfaces.EventPublisher, logger zerolog.Logger) *ChatService {
	return &ChatService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// GetConversation returns the thread between viewerID and partnerID and marks
// the partner's messages to the viewer as read afterwards.
func (cs *ChatService) GetConversation(ctx context.Context, viewerID, partnerID string) (*models.Conversation, error) {
	partner, err := cs.lookupPartner(ctx, viewerID, partnerID)
	if err != nil {
		return nil, err
	}
	records, err := cs.store.MessagesBetween(ctx, viewerID, partnerID)
	if err != nil {
		return nil, err
	}
	conversation := models.NewConversation(viewerID, partner, records)

	if err := cs.store.MarkRead(ctx, viewerID, partnerID); err != nil {
		cs.logger.Warn().Err(err).Str("viewer_id", viewerID).Msg("failed to mark messages read")
	}
	return conversation, nil
}

// SendMessage stores a message from senderID to partnerID and notifies both
// parties' push subscribers.
func (cs *ChatService) SendMessage(ctx context.Context, senderID, partnerID, text string) (*models.Message, error) {
	content, err := validators.ValidateMessageText(text)
	if err != nil {
		return nil, err
	}
	if _, err := cs.lookupPartner(ctx, senderID, partnerID); err != nil {
		return nil, err
	}

	record := &models.MessageRecord{
		MessageID:   uuid.NewString(),
		SenderID:    senderID,
		RecipientID: partnerID,
		Content:     content,
	}
	if err := cs.store.SaveMessage(ctx, record); err != nil {
		return nil, err
	}
	message := record.ToMessage()

	if cs.publisher != nil {
		event := redisModels.RedisPublishedMessage{
			Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
			ConversationID: models.ConversationIDFor(senderID, partnerID),
			Recipients:     []string{senderID, partnerID},
			Payload: socketModels.NewMessagePayload{
				SenderID:    senderID,
				RecipientID: partnerID,
			},
		}
		// The message is stored; a lost notification is covered by polling
		if err := cs.publisher.Publish(ctx, event); err != nil {
			cs.logger.Error().Err(err).Str("message_id", message.MessageID).Msg("failed to publish new message event")
		}
	}
	return &message, nil
}

func (cs *ChatService) lookupPartner(ctx context.Context, viewerID, partnerID string) (*models.UserRecord, error) {
	if err := validators.ValidatePartnerID(partnerID); err != nil {
		return nil, err
	}
	if viewerID == partnerID {
		return nil, errs.ErrSelfConversation
	}
	partner, err := cs.store.FindUserByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrConversationNotFound
		}
		return nil, err
	}
	return partner, nil
}
