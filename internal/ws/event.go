package ws

import "encoding/json"

// Outbound event kinds pushed to clients.
const (
	EventConnected       = "connected"
	EventRoomJoined      = "room joined"
	EventMessageReceived = "message received"
	EventTyping          = "typing"
	EventMessagesRead    = "messages read"
	EventMessageDeleted  = "message deleted"
)

// Inbound command kinds accepted from clients. Messages themselves are
// ingested over REST; the socket only carries room joins and transient
// signals.
const (
	CommandJoinChat = "join chat"
	CommandTyping   = "typing"
)

// Event is the outbound envelope. Data is already shaped by the producer;
// clients switch on Kind.
type Event struct {
	Kind string `json:"event"`
	Data any    `json:"data,omitempty"`
}

func (e Event) encode() []byte {
	b, _ := json.Marshal(e)
	return b
}

// Command is the inbound envelope decoded off the wire.
type Command struct {
	Kind     string `json:"command"`
	ChatID   string `json:"chat_id,omitempty"`
	IsTyping bool   `json:"is_typing,omitempty"`
}
