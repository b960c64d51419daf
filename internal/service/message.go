package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/metrics"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
	"github.com/yourorg/chatapp/internal/ws"
)

// Dispatcher is the fan-out boundary the services push through.
type Dispatcher interface {
	DispatchMessage(ctx context.Context, chat *models.Chat, msg *models.MessageWithSender)
	DispatchEvent(ctx context.Context, chat *models.Chat, actorID string, event ws.Event)
}

// Publisher is the downstream event stream fed after persistence.
type Publisher interface {
	PublishMessageSent(ctx context.Context, chatID string, payload any) error
}

type MessageService struct {
	chats      repository.ChatRepository
	messages   repository.MessageRepository
	users      repository.UserRepository
	dispatcher Dispatcher
	publisher  Publisher
	log        *zap.SugaredLogger
}

func NewMessageService(
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	dispatcher Dispatcher,
	publisher Publisher,
	log *zap.SugaredLogger,
) *MessageService {
	return &MessageService{
		chats:      chats,
		messages:   messages,
		users:      users,
		dispatcher: dispatcher,
		publisher:  publisher,
		log:        log,
	}
}

// Send validates, authorizes and durably stores one message, then fans it
// out. Persistence is a blocking prerequisite: nothing is pushed until the
// store write succeeded, so the sender learning "persisted" is exactly the
// durability they get.
func (s *MessageService) Send(ctx context.Context, senderID, chatID, content, msgType string) (*models.MessageWithSender, error) {
	if content == "" {
		return nil, fmt.Errorf("content required: %w", apperr.ErrValidation)
	}
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !models.ValidMessageType(msgType) {
		return nil, fmt.Errorf("unknown message type %q: %w", msgType, apperr.ErrValidation)
	}
	chat, err := s.chats.FindByID(ctx, chatID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("chat %s: %w", chatID, apperr.ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(senderID) {
		return nil, fmt.Errorf("sender is not a chat member: %w", apperr.ErrAuthorization)
	}
	if chat.IsAnnouncement && chat.AdminID != senderID {
		return nil, fmt.Errorf("only the admin may post here: %w", apperr.ErrAuthorization)
	}

	msg := &models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		Type:     msgType,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}
	metrics.MessagesIngested.Inc()

	// The message is durable at this point. The pointer update is
	// best-effort: on failure the message survives and the pointer can be
	// recomputed from the latest message of the chat.
	if err := s.chats.SetLatestMessage(ctx, chatID, msg); err != nil {
		s.log.Warnw("latest message pointer update failed",
			"chat_id", chatID, "message_id", msg.ID, "error", err)
	}

	out := &models.MessageWithSender{Message: *msg}
	if sender, err := s.users.FindByID(ctx, senderID); err == nil {
		out.Sender = sender
	}

	if s.publisher != nil {
		if err := s.publisher.PublishMessageSent(ctx, chatID, out); err != nil {
			s.log.Warnw("message event publish failed", "message_id", msg.ID, "error", err)
		}
	}
	s.dispatcher.DispatchMessage(ctx, chat, out)
	return out, nil
}

// History returns chat messages in chronological order. Only current
// members may read.
func (s *MessageService) History(ctx context.Context, userID, chatID string, limit int64, before time.Time) ([]*models.Message, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, fmt.Errorf("not a chat member: %w", apperr.ErrAuthorization)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.messages.ListByChat(ctx, chatID, limit, before)
}

// Delete removes a message for everyone. Sender-only; messages are
// otherwise immutable.
func (s *MessageService) Delete(ctx context.Context, userID, messageID string) error {
	msg, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != userID {
		return fmt.Errorf("only the sender may delete: %w", apperr.ErrAuthorization)
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		return err
	}
	if chat, err := s.chats.FindByID(ctx, msg.ChatID); err == nil {
		s.dispatcher.DispatchEvent(ctx, chat, userID, ws.Event{
			Kind: ws.EventMessageDeleted,
			Data: map[string]string{"chat_id": msg.ChatID, "message_id": messageID},
		})
		if chat.LatestMessage != nil && chat.LatestMessage.ID == messageID {
			s.refreshLatest(ctx, msg.ChatID)
		}
	}
	return nil
}

// MarkRead records read marks and notifies the other members.
func (s *MessageService) MarkRead(ctx context.Context, userID, chatID string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return fmt.Errorf("message ids required: %w", apperr.ErrValidation)
	}
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasMember(userID) {
		return fmt.Errorf("not a chat member: %w", apperr.ErrAuthorization)
	}
	if err := s.messages.MarkRead(ctx, chatID, messageIDs, userID); err != nil {
		return err
	}
	s.dispatcher.DispatchEvent(ctx, chat, userID, ws.Event{
		Kind: ws.EventMessagesRead,
		Data: map[string]any{"chat_id": chatID, "message_ids": messageIDs, "user_id": userID},
	})
	return nil
}

// Typing forwards a transient typing signal; nothing is persisted.
func (s *MessageService) Typing(ctx context.Context, userID, chatID string, isTyping bool) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasMember(userID) {
		return fmt.Errorf("not a chat member: %w", apperr.ErrAuthorization)
	}
	s.dispatcher.DispatchEvent(ctx, chat, userID, ws.Event{
		Kind: ws.EventTyping,
		Data: map[string]any{"chat_id": chatID, "user_id": userID, "is_typing": isTyping},
	})
	return nil
}

func (s *MessageService) refreshLatest(ctx context.Context, chatID string) {
	latest, err := s.messages.LatestForChat(ctx, chatID)
	if errors.Is(err, apperr.ErrNotFound) {
		latest = nil
	} else if err != nil {
		s.log.Warnw("latest message recompute failed", "chat_id", chatID, "error", err)
		return
	}
	if err := s.chats.SetLatestMessage(ctx, chatID, latest); err != nil {
		s.log.Warnw("latest message pointer update failed", "chat_id", chatID, "error", err)
	}
}
