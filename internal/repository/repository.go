package repository

import (
	"context"
	"time"

	"github.com/yourorg/chatapp/internal/models"
)

// The persisted store is the single source of truth; in-memory structures
// elsewhere are rebuildable caches over these collections.

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Search(ctx context.Context, query string, limit int64) ([]*models.User, error)
}

type ChatRepository interface {
	Create(ctx context.Context, c *models.Chat) error
	FindByID(ctx context.Context, id string) (*models.Chat, error)
	// FindDirect resolves a 1:1 chat by its sorted-pair natural key.
	FindDirect(ctx context.Context, pairKey string) (*models.Chat, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Chat, error)
	Rename(ctx context.Context, chatID, name string) error
	AddMember(ctx context.Context, chatID, userID string) error
	RemoveMember(ctx context.Context, chatID, userID string) error
	SetLatestMessage(ctx context.Context, chatID string, m *models.Message) error
	Delete(ctx context.Context, chatID string) error
}

type MessageRepository interface {
	Insert(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id string) (*models.Message, error)
	ListByChat(ctx context.Context, chatID string, limit int64, before time.Time) ([]*models.Message, error)
	LatestForChat(ctx context.Context, chatID string) (*models.Message, error)
	MarkRead(ctx context.Context, chatID string, messageIDs []string, userID string) error
	Delete(ctx context.Context, id string) error
}

type CommunityRepository interface {
	Create(ctx context.Context, cm *models.Community) error
	FindByID(ctx context.Context, id string) (*models.Community, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Community, error)
	AddMember(ctx context.Context, communityID, userID string) error
	RemoveMember(ctx context.Context, communityID, userID string) error
	AddGroup(ctx context.Context, communityID, chatID string) error
	RemoveGroup(ctx context.Context, communityID, chatID string) error
}

type CallRepository interface {
	Insert(ctx context.Context, c *models.Call) error
	ListForUser(ctx context.Context, userID string, limit int64) ([]*models.Call, error)
}
