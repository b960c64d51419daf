package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
)

type ChatService struct {
	chats repository.ChatRepository
	users repository.UserRepository
	log   *zap.SugaredLogger
}

func NewChatService(chats repository.ChatRepository, users repository.UserRepository, log *zap.SugaredLogger) *ChatService {
	return &ChatService{chats: chats, users: users, log: log}
}

// AccessDirect returns the 1:1 chat between the caller and other, creating
// it on first access. The sorted-pair key plus its unique index make the
// operation idempotent: the same two users always resolve to the same chat.
func (s *ChatService) AccessDirect(ctx context.Context, userID, otherID string) (*models.Chat, error) {
	if otherID == "" || otherID == userID {
		return nil, fmt.Errorf("counterpart required: %w", apperr.ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, otherID); err != nil {
		return nil, err
	}
	pairKey := models.PairKeyFor(userID, otherID)
	chat, err := s.chats.FindDirect(ctx, pairKey)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	chat = &models.Chat{
		IsGroup: false,
		Members: []string{userID, otherID},
		PairKey: pairKey,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		// Lost the race to a concurrent first access; the winner's chat is
		// the canonical one.
		if existing, ferr := s.chats.FindDirect(ctx, pairKey); ferr == nil {
			return existing, nil
		}
		return nil, err
	}
	return chat, nil
}

// CreateGroup makes a group chat with the creator as admin and member.
func (s *ChatService) CreateGroup(ctx context.Context, adminID, name string, memberIDs []string) (*models.Chat, error) {
	if name == "" {
		return nil, fmt.Errorf("group name required: %w", apperr.ErrValidation)
	}
	members := []string{adminID}
	for _, id := range memberIDs {
		if id != adminID {
			members = append(members, id)
		}
	}
	chat := &models.Chat{
		Name:    name,
		IsGroup: true,
		AdminID: adminID,
		Members: members,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Get returns a chat to one of its members.
func (s *ChatService) Get(ctx context.Context, userID, chatID string) (*models.Chat, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, fmt.Errorf("not a chat member: %w", apperr.ErrAuthorization)
	}
	return chat, nil
}

func (s *ChatService) ListForUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	return s.chats.ListForUser(ctx, userID)
}

// Rename is admin-only and applies to groups.
func (s *ChatService) Rename(ctx context.Context, actorID, chatID, name string) error {
	if name == "" {
		return fmt.Errorf("name required: %w", apperr.ErrValidation)
	}
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return fmt.Errorf("direct chats have no name: %w", apperr.ErrValidation)
	}
	if chat.AdminID != actorID {
		return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
	}
	return s.chats.Rename(ctx, chatID, name)
}

// AddMember: not-a-member -> member. Admin-only for groups.
func (s *ChatService) AddMember(ctx context.Context, actorID, chatID, userID string) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return fmt.Errorf("cannot add members to a direct chat: %w", apperr.ErrValidation)
	}
	if chat.IsAnnouncement {
		return fmt.Errorf("announcement membership follows the community: %w", apperr.ErrValidation)
	}
	if chat.AdminID != actorID {
		return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.chats.AddMember(ctx, chatID, userID)
}

// RemoveMember: an admin may remove another member, and any member may
// remove themselves (exit). Removing the admin is disallowed so a group is
// never left admin-less; the admin deletes the group instead.
func (s *ChatService) RemoveMember(ctx context.Context, actorID, chatID, userID string) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return fmt.Errorf("cannot leave a direct chat: %w", apperr.ErrValidation)
	}
	if chat.IsAnnouncement {
		return fmt.Errorf("announcement membership follows the community: %w", apperr.ErrValidation)
	}
	if actorID != userID && chat.AdminID != actorID {
		return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
	}
	if userID == chat.AdminID {
		return fmt.Errorf("the admin cannot be removed: %w", apperr.ErrAuthorization)
	}
	if !chat.HasMember(userID) {
		return fmt.Errorf("user is not a member: %w", apperr.ErrNotFound)
	}
	return s.chats.RemoveMember(ctx, chatID, userID)
}

// Delete removes a chat. Groups: admin-only. Direct chats: either party.
func (s *ChatService) Delete(ctx context.Context, actorID, chatID string) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.IsGroup {
		if chat.AdminID != actorID {
			return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
		}
	} else if !chat.HasMember(actorID) {
		return fmt.Errorf("not a chat member: %w", apperr.ErrAuthorization)
	}
	return s.chats.Delete(ctx, chatID)
}
