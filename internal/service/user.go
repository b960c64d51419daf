package service

import (
	"context"
	"fmt"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
)

// Presence is the online mirror consulted for the connected-users view.
type Presence interface {
	OnlineUsers(ctx context.Context) ([]string, error)
}

type UserService struct {
	users    repository.UserRepository
	presence Presence
}

func NewUserService(users repository.UserRepository, presence Presence) *UserService {
	return &UserService{users: users, presence: presence}
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	About     *string `json:"about,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UpdateProfile applies the provided fields only; phone number is fixed at
// verification and never changes here.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", apperr.ErrValidation)
		}
		user.Name = *upd.Name
	}
	if upd.About != nil {
		user.About = *upd.About
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = *upd.AvatarURL
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Search(ctx context.Context, query string) ([]*models.User, error) {
	if query == "" {
		return nil, fmt.Errorf("query required: %w", apperr.ErrValidation)
	}
	return s.users.Search(ctx, query, 20)
}

func (s *UserService) OnlineUsers(ctx context.Context) ([]string, error) {
	return s.presence.OnlineUsers(ctx)
}
