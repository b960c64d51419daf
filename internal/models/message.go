package models

import "time"

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeAudio = "audio"
)

type Message struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ChatID    string    `bson:"chat_id" json:"chat_id"`
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	Content   string    `bson:"content" json:"content"`
	Type      string    `bson:"type" json:"type"`
	ReadBy    []string  `bson:"read_by,omitempty" json:"read_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// MessageWithSender is the read-side projection used in responses and
// realtime pushes: the referenced sender is expanded into a typed DTO
// instead of being resolved ad hoc by the caller.
type MessageWithSender struct {
	Message `bson:",inline"`
	Sender  *User `bson:"sender,omitempty" json:"sender,omitempty"`
}

func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeAudio:
		return true
	}
	return false
}
