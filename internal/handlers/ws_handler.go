package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/auth"
	"github.com/yourorg/chatapp/internal/service"
	"github.com/yourorg/chatapp/internal/ws"
)

// PresenceWriter mirrors connect/disconnect into the presence store.
type PresenceWriter interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// WSHandler upgrades connections and translates inbound socket commands
// into service calls. The socket never carries message ingest; that stays
// on the REST path so senders always learn the persistence outcome.
type WSHandler struct {
	hub      *ws.Hub
	tokens   *auth.TokenIssuer
	chats    *service.ChatService
	messages *service.MessageService
	presence PresenceWriter
	opts     ws.ClientOptions
	log      *zap.SugaredLogger
}

func NewWSHandler(
	hub *ws.Hub,
	tokens *auth.TokenIssuer,
	chats *service.ChatService,
	messages *service.MessageService,
	presence PresenceWriter,
	opts ws.ClientOptions,
	log *zap.SugaredLogger,
) *WSHandler {
	return &WSHandler{
		hub:      hub,
		tokens:   tokens,
		chats:    chats,
		messages: messages,
		presence: presence,
		opts:     opts,
		log:      log,
	}
}

// Upgrade gates the websocket route; non-upgrade requests are rejected.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve runs one connection. The token travels in the query string because
// browsers cannot set headers on websocket dials.
func (h *WSHandler) Serve(conn *websocket.Conn) {
	userID, err := h.tokens.Verify(conn.Query("token"))
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, encodeEvent(ws.Event{
			Kind: "error", Data: "invalid token",
		}))
		_ = conn.Close()
		return
	}

	client := ws.NewClient(conn, userID, h.hub, h.opts, h.log)
	h.hub.Register(client)
	if err := h.presence.SetOnline(context.Background(), userID); err != nil {
		h.log.Warnw("presence online update failed", "user_id", userID, "error", err)
	}
	client.Enqueue(encodeEvent(ws.Event{
		Kind: ws.EventConnected,
		Data: map[string]string{"connection_id": client.ID},
	}))
	h.log.Infow("websocket connected", "user_id", userID, "connection_id", client.ID)

	client.Run(h.onCommand)

	// Run returned: the connection is gone and the hub entry is cleared.
	if len(h.hub.ConnectionsFor(userID)) == 0 {
		if err := h.presence.SetOffline(context.Background(), userID); err != nil {
			h.log.Warnw("presence offline update failed", "user_id", userID, "error", err)
		}
	}
	h.log.Infow("websocket disconnected", "user_id", userID, "connection_id", client.ID)
}

func (h *WSHandler) onCommand(client *ws.Client, cmd ws.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cmd.Kind {
	case ws.CommandJoinChat:
		// Joining is an optimization, not an authorization grant, but a
		// non-member still may not subscribe.
		if _, err := h.chats.Get(ctx, client.UserID, cmd.ChatID); err != nil {
			return
		}
		h.hub.JoinRoom(client, cmd.ChatID)
		client.Enqueue(encodeEvent(ws.Event{
			Kind: ws.EventRoomJoined,
			Data: map[string]string{"chat_id": cmd.ChatID},
		}))
	case ws.CommandTyping:
		if err := h.messages.Typing(ctx, client.UserID, cmd.ChatID, cmd.IsTyping); err != nil {
			h.log.Debugw("typing relay rejected", "user_id", client.UserID, "chat_id", cmd.ChatID)
		}
	}
}

func encodeEvent(e ws.Event) []byte {
	b, _ := json.Marshal(e)
	return b
}
