package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/assistant"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
)

// assistantSenderID marks messages produced by the assistant side of an
// exchange.
const assistantSenderID = "assistant"

// AssistantService runs the conversation-like assistant flow: forward the
// prompt to the external provider and store both sides with the regular
// message persistence pattern, under a per-user synthetic chat id.
type AssistantService struct {
	provider assistant.Provider
	messages repository.MessageRepository
	log      *zap.SugaredLogger
}

func NewAssistantService(provider assistant.Provider, messages repository.MessageRepository, log *zap.SugaredLogger) *AssistantService {
	return &AssistantService{provider: provider, messages: messages, log: log}
}

func assistantChatID(userID string) string { return "assistant:" + userID }

// Ask stores the prompt, queries the provider, then stores and returns the
// reply. The prompt survives even if the provider call fails.
func (s *AssistantService) Ask(ctx context.Context, userID, prompt string) (*models.Message, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt required: %w", apperr.ErrValidation)
	}
	chatID := assistantChatID(userID)
	in := &models.Message{
		ChatID:   chatID,
		SenderID: userID,
		Content:  prompt,
		Type:     models.MessageTypeText,
	}
	if err := s.messages.Insert(ctx, in); err != nil {
		return nil, fmt.Errorf("persist prompt: %w", err)
	}

	reply, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		s.log.Warnw("assistant completion failed", "user_id", userID, "error", err)
		return nil, err
	}
	out := &models.Message{
		ChatID:   chatID,
		SenderID: assistantSenderID,
		Content:  reply,
		Type:     models.MessageTypeText,
	}
	if err := s.messages.Insert(ctx, out); err != nil {
		return nil, fmt.Errorf("persist reply: %w", err)
	}
	return out, nil
}

// History returns the caller's assistant exchange in chronological order.
func (s *AssistantService) History(ctx context.Context, userID string, limit int64, before time.Time) ([]*models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.messages.ListByChat(ctx, assistantChatID(userID), limit, before)
}
