package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
)

// CommunityService owns the community membership state machine and the
// cascade into the announcement chat. The cascade is synchronous: when an
// add returns, the announcement member set already contains the new member.
type CommunityService struct {
	communities repository.CommunityRepository
	chats       repository.ChatRepository
	users       repository.UserRepository
	log         *zap.SugaredLogger
}

func NewCommunityService(
	communities repository.CommunityRepository,
	chats repository.ChatRepository,
	users repository.UserRepository,
	log *zap.SugaredLogger,
) *CommunityService {
	return &CommunityService{communities: communities, chats: chats, users: users, log: log}
}

// Create makes the community together with its announcement chat. The
// creator is the single admin of both.
func (s *CommunityService) Create(ctx context.Context, adminID, name, description string) (*models.Community, error) {
	if name == "" {
		return nil, fmt.Errorf("community name required: %w", apperr.ErrValidation)
	}
	announcement := &models.Chat{
		Name:           name + " (announcements)",
		IsGroup:        true,
		IsAnnouncement: true,
		AdminID:        adminID,
		Members:        []string{adminID},
	}
	if err := s.chats.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("create announcement chat: %w", err)
	}
	cm := &models.Community{
		Name:               name,
		Description:        description,
		AdminID:            adminID,
		AnnouncementChatID: announcement.ID,
		GroupIDs:           []string{},
		Members:            []string{adminID},
	}
	if err := s.communities.Create(ctx, cm); err != nil {
		return nil, fmt.Errorf("create community: %w", err)
	}
	return cm, nil
}

func (s *CommunityService) Get(ctx context.Context, userID, communityID string) (*models.Community, error) {
	cm, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if !cm.HasMember(userID) {
		return nil, fmt.Errorf("not a community member: %w", apperr.ErrAuthorization)
	}
	return cm, nil
}

func (s *CommunityService) ListForUser(ctx context.Context, userID string) ([]*models.Community, error) {
	return s.communities.ListForUser(ctx, userID)
}

// AddMember adds a user to the community and to its announcement chat.
// The announcement chat is updated first so the announcement member set is
// a superset of the community member set at every observable point.
func (s *CommunityService) AddMember(ctx context.Context, actorID, communityID, userID string) error {
	cm, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		return err
	}
	if cm.AdminID != actorID {
		return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.chats.AddMember(ctx, cm.AnnouncementChatID, userID); err != nil {
		return fmt.Errorf("announcement cascade: %w", err)
	}
	if err := s.communities.AddMember(ctx, communityID, userID); err != nil {
		// Roll the cascade back so the two sets cannot drift apart.
		if rerr := s.chats.RemoveMember(ctx, cm.AnnouncementChatID, userID); rerr != nil {
			s.log.Errorw("announcement cascade rollback failed",
				"community_id", communityID, "user_id", userID, "error", rerr)
		}
		return err
	}
	return nil
}

// RemoveMember removes a user from the community and its announcement
// chat. The community record is updated first, preserving the superset
// invariant throughout. Removing the sole admin is disallowed.
func (s *CommunityService) RemoveMember(ctx context.Context, actorID, communityID, userID string) error {
	cm, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		return err
	}
	if actorID != userID && cm.AdminID != actorID {
		return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
	}
	if userID == cm.AdminID {
		return fmt.Errorf("the admin cannot leave their community: %w", apperr.ErrAuthorization)
	}
	if !cm.HasMember(userID) {
		return fmt.Errorf("user is not a member: %w", apperr.ErrNotFound)
	}
	if err := s.communities.RemoveMember(ctx, communityID, userID); err != nil {
		return err
	}
	if err := s.chats.RemoveMember(ctx, cm.AnnouncementChatID, userID); err != nil {
		return fmt.Errorf("announcement cascade: %w", err)
	}
	return nil
}

// AddGroup links an existing group chat into the community. Admin-only,
// and the announcement chat itself cannot be linked as a regular group.
func (s *CommunityService) AddGroup(ctx context.Context, actorID, communityID, chatID string) error {
	cm, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		return err
	}
	if cm.AdminID != actorID {
		return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
	}
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup || chat.IsAnnouncement {
		return fmt.Errorf("only regular group chats can be linked: %w", apperr.ErrValidation)
	}
	return s.communities.AddGroup(ctx, communityID, chatID)
}

// RemoveGroup unlinks a group chat; the chat itself survives.
func (s *CommunityService) RemoveGroup(ctx context.Context, actorID, communityID, chatID string) error {
	cm, err := s.communities.FindByID(ctx, communityID)
	if err != nil {
		return err
	}
	if cm.AdminID != actorID {
		return fmt.Errorf("admin only: %w", apperr.ErrAuthorization)
	}
	if !cm.HasGroup(chatID) {
		return fmt.Errorf("group is not linked: %w", apperr.ErrNotFound)
	}
	return s.communities.RemoveGroup(ctx, communityID, chatID)
}
