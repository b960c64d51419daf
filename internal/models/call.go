package models

import "time"

const (
	CallTypeVoice = "voice"
	CallTypeVideo = "video"

	CallOutcomeAnswered = "answered"
	CallOutcomeMissed   = "missed"
	CallOutcomeDeclined = "declined"
)

// Call is an append-only log entry; there is no lifecycle after creation.
type Call struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	CallerID        string    `bson:"caller_id" json:"caller_id"`
	ReceiverID      string    `bson:"receiver_id" json:"receiver_id"`
	Type            string    `bson:"type" json:"type"`
	Outcome         string    `bson:"outcome" json:"outcome"`
	DurationSeconds int       `bson:"duration_seconds" json:"duration_seconds"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
