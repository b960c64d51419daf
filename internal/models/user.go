package models

import "time"

type User struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	PhoneNumber string     `bson:"phone_number" json:"phone_number"`
	Name        string     `bson:"name" json:"name"`
	About       string     `bson:"about,omitempty" json:"about,omitempty"`
	AvatarURL   string     `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
