package messaging

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/events"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// MessageStore is the persistence surface the service needs.
type MessageStore interface {
	GetOrCreateConversation(userA, userB string) (*models.Conversation, error)
	GetConversation(conversationID string) (*models.Conversation, error)
	ListConversations(userID string) ([]models.Conversation, error)
	CreateMessage(msg *models.Message) error
	ListMessages(conversationID string) ([]models.Message, error)
	UnreadCount(userID string) (int, error)
	MarkRead(conversationID, userID string) (int64, error)
}

// EventPublisher pushes committed changes onto the event streams.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// Service implements two-party messaging.
type Service struct {
	store     MessageStore
	publisher EventPublisher
}

func NewService(store MessageStore, publisher EventPublisher) *Service {
	return &Service{store: store, publisher: publisher}
}

func (s *Service) SendMessage(cmd cqrs.SendMessageCommand) (*models.Message, error) {
	if cmd.Content == "" {
		return nil, fmt.Errorf("message content required")
	}
	if !utils.ValidateUserID(cmd.ReceiverID) {
		return nil, fmt.Errorf("invalid receiver")
	}
	if cmd.SenderID == cmd.ReceiverID {
		return nil, fmt.Errorf("cannot message yourself")
	}

	conv, err := s.store.GetOrCreateConversation(cmd.SenderID, cmd.ReceiverID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:             utils.GenerateID("msg"),
		ConversationID: conv.ID,
		SenderID:       cmd.SenderID,
		ReceiverID:     cmd.ReceiverID,
		Content:        cmd.Content,
		Read:           false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateMessage(msg); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(context.Background(), events.MessageEventsStream, events.MessageSent, events.MessageSentEvent{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
	}); err != nil {
		log.Printf("Failed to publish message.sent event: %v", err)
	}
	return msg, nil
}

func (s *Service) ListConversations(q cqrs.ListConversationsQuery) ([]models.Conversation, error) {
	return s.store.ListConversations(q.UserID)
}

// ListMessages returns a conversation's messages after verifying the
// caller is a participant.
func (s *Service) ListMessages(q cqrs.ListMessagesQuery) ([]models.Message, error) {
	conv, err := s.store.GetConversation(q.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv.User1ID != q.UserID && conv.User2ID != q.UserID {
		return nil, fmt.Errorf("forbidden")
	}
	return s.store.ListMessages(q.ConversationID)
}

func (s *Service) UnreadCount(q cqrs.UnreadCountQuery) (int, error) {
	return s.store.UnreadCount(q.UserID)
}

// MarkRead marks all messages addressed to the caller in a conversation.
func (s *Service) MarkRead(cmd cqrs.MarkReadCommand) (int64, error) {
	conv, err := s.store.GetConversation(cmd.ConversationID)
	if err != nil {
		return 0, err
	}
	if conv.User1ID != cmd.UserID && conv.User2ID != cmd.UserID {
		return 0, fmt.Errorf("forbidden")
	}
	return s.store.MarkRead(cmd.ConversationID, cmd.UserID)
}
