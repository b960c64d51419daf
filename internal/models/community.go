package models

import "time"

type Community struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	Name               string    `bson:"name" json:"name"`
	Description        string    `bson:"description,omitempty" json:"description,omitempty"`
	AdminID            string    `bson:"admin_id" json:"admin_id"`
	AnnouncementChatID string    `bson:"announcement_chat_id" json:"announcement_chat_id"`
	GroupIDs           []string  `bson:"group_ids" json:"group_ids"`
	Members            []string  `bson:"members" json:"members"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

func (cm *Community) HasMember(userID string) bool {
	for _, m := range cm.Members {
		if m == userID {
			return true
		}
	}
	return false
}

func (cm *Community) HasGroup(chatID string) bool {
	for _, g := range cm.GroupIDs {
		if g == chatID {
			return true
		}
	}
	return false
}
