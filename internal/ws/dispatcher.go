package ws

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
)

// Dispatcher fans a persisted message out to every currently connected
// recipient. Delivery is best-effort and fire-and-forget: no acks, no
// retries, and a failure toward one recipient never blocks the rest.
type Dispatcher struct {
	hub   *Hub
	chats repository.ChatRepository
	log   *zap.SugaredLogger
}

func NewDispatcher(hub *Hub, chats repository.ChatRepository, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{hub: hub, chats: chats, log: log}
}

// DispatchMessage pushes a "message received" event to all chat members
// except the sender. The recipient set comes from the persisted chat, not
// from who happens to be subscribed to the room: a member with the app open
// elsewhere is still an authorized recipient.
func (d *Dispatcher) DispatchMessage(ctx context.Context, chat *models.Chat, msg *models.MessageWithSender) {
	payload := Event{Kind: EventMessageReceived, Data: msg}.encode()
	d.fanOut(ctx, chat, msg.SenderID, payload)
}

// DispatchEvent pushes a transient event (typing, read marks, deletions)
// to all chat members except the actor.
func (d *Dispatcher) DispatchEvent(ctx context.Context, chat *models.Chat, actorID string, event Event) {
	d.fanOut(ctx, chat, actorID, event.encode())
}

func (d *Dispatcher) fanOut(ctx context.Context, chat *models.Chat, senderID string, payload []byte) {
	// Re-read membership so a mid-session removal or chat deletion is
	// honored on the next dispatch rather than treated as an error.
	current, err := d.chats.FindByID(ctx, chat.ID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			d.log.Warnw("fan-out membership lookup failed, using caller snapshot",
				"chat_id", chat.ID, "error", err)
			current = chat
		} else {
			return
		}
	}
	for _, userID := range current.Members {
		if userID == senderID {
			continue
		}
		d.hub.SendToUser(userID, payload)
	}
}
