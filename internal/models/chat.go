package models

import (
	"sort"
	"strings"
	"time"
)

type Chat struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Name           string    `bson:"name,omitempty" json:"name,omitempty"`
	IsGroup        bool      `bson:"is_group" json:"is_group"`
	IsAnnouncement bool      `bson:"is_announcement" json:"is_announcement"`
	AdminID        string    `bson:"admin_id,omitempty" json:"admin_id,omitempty"`
	Members        []string  `bson:"members" json:"members"` // user IDs only
	PairKey        string    `bson:"pair_key,omitempty" json:"-"`
	LatestMessage  *Message  `bson:"latest_message,omitempty" json:"latest_message,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// PairKeyFor builds the natural key for a 1:1 chat. A unique index on
// pair_key makes direct-chat access idempotent regardless of argument order.
func PairKeyFor(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// HasMember reports whether userID is in the persisted member set.
func (c *Chat) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// SortedMembers returns a copy of the member set in stable order.
func (c *Chat) SortedMembers() []string {
	out := append([]string(nil), c.Members...)
	sort.Strings(out)
	return out
}

// DirectChatName is a display fallback for 1:1 chats, which carry no name.
func (c *Chat) DirectChatName() string {
	if c.IsGroup {
		return c.Name
	}
	return strings.Join(c.Members, ",")
}
