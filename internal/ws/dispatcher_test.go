package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
)

// chatStore is the minimal membership source the dispatcher consults.
type chatStore struct {
	chats map[string]*models.Chat
}

func (s *chatStore) FindByID(_ context.Context, id string) (*models.Chat, error) {
	c, ok := s.chats[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

func (s *chatStore) Create(context.Context, *models.Chat) error        { return nil }
func (s *chatStore) FindDirect(context.Context, string) (*models.Chat, error) {
	return nil, apperr.ErrNotFound
}
func (s *chatStore) ListForUser(context.Context, string) ([]*models.Chat, error) { return nil, nil }
func (s *chatStore) Rename(context.Context, string, string) error                { return nil }
func (s *chatStore) AddMember(context.Context, string, string) error             { return nil }
func (s *chatStore) RemoveMember(context.Context, string, string) error          { return nil }
func (s *chatStore) SetLatestMessage(context.Context, string, *models.Message) error {
	return nil
}
func (s *chatStore) Delete(context.Context, string) error { return nil }

func dispatcherFixture(chat *models.Chat) (*Hub, *Dispatcher) {
	hub := NewHub()
	store := &chatStore{chats: map[string]*models.Chat{chat.ID: chat}}
	return hub, NewDispatcher(hub, store, zap.NewNop().Sugar())
}

func sampleMessage(chatID, senderID string) *models.MessageWithSender {
	return &models.MessageWithSender{Message: models.Message{
		ID:        "m1",
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   "hi",
		Type:      models.MessageTypeText,
		CreatedAt: time.Now().UTC(),
	}}
}

func TestDispatchSkipsSender(t *testing.T) {
	chat := &models.Chat{ID: "c1", Members: []string{"a", "b", "c"}}
	hub, d := dispatcherFixture(chat)

	senderPhone := testClient(hub, "a")
	senderLaptop := testClient(hub, "a")
	recipient := testClient(hub, "b")
	hub.Register(senderPhone)
	hub.Register(senderLaptop)
	hub.Register(recipient)

	d.DispatchMessage(context.Background(), chat, sampleMessage("c1", "a"))

	if len(senderPhone.send) != 0 || len(senderLaptop.send) != 0 {
		t.Fatal("no device of the sender may receive the message back")
	}
	if len(recipient.send) != 1 {
		t.Fatalf("recipient expected 1 event, got %d", len(recipient.send))
	}
}

func TestDispatchPayloadShape(t *testing.T) {
	chat := &models.Chat{ID: "c1", Members: []string{"a", "b"}}
	hub, d := dispatcherFixture(chat)
	recipient := testClient(hub, "b")
	hub.Register(recipient)

	d.DispatchMessage(context.Background(), chat, sampleMessage("c1", "a"))

	var ev struct {
		Kind string `json:"event"`
		Data struct {
			Content string `json:"content"`
			ChatID  string `json:"chat_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(<-recipient.send, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Kind != EventMessageReceived {
		t.Fatalf("got kind %q, want %q", ev.Kind, EventMessageReceived)
	}
	if ev.Data.Content != "hi" || ev.Data.ChatID != "c1" {
		t.Fatalf("unexpected payload: %+v", ev.Data)
	}
}

func TestDispatchUsesPersistedMembership(t *testing.T) {
	// b was removed after the caller loaded the chat; the dispatcher must
	// honor the store, not the stale snapshot.
	stale := &models.Chat{ID: "c1", Members: []string{"a", "b", "c"}}
	current := &models.Chat{ID: "c1", Members: []string{"a", "c"}}
	hub := NewHub()
	store := &chatStore{chats: map[string]*models.Chat{"c1": current}}
	d := NewDispatcher(hub, store, zap.NewNop().Sugar())

	removed := testClient(hub, "b")
	kept := testClient(hub, "c")
	hub.Register(removed)
	hub.Register(kept)

	d.DispatchMessage(context.Background(), stale, sampleMessage("c1", "a"))

	if len(removed.send) != 0 {
		t.Fatal("removed member must be skipped")
	}
	if len(kept.send) != 1 {
		t.Fatalf("remaining member expected 1 event, got %d", len(kept.send))
	}
}

func TestDispatchDeletedChatIsNoop(t *testing.T) {
	chat := &models.Chat{ID: "gone", Members: []string{"a", "b"}}
	hub := NewHub()
	store := &chatStore{chats: map[string]*models.Chat{}}
	d := NewDispatcher(hub, store, zap.NewNop().Sugar())

	recipient := testClient(hub, "b")
	hub.Register(recipient)

	d.DispatchMessage(context.Background(), chat, sampleMessage("gone", "a"))

	if len(recipient.send) != 0 {
		t.Fatal("dispatch for a deleted chat must be skipped, not an error")
	}
}

func TestDispatchIsolatesSlowRecipients(t *testing.T) {
	chat := &models.Chat{ID: "c1", Members: []string{"a", "b", "c"}}
	hub, d := dispatcherFixture(chat)

	slow := NewClient(nil, "b", hub, ClientOptions{SendBuffer: 1}, zap.NewNop().Sugar())
	healthy := testClient(hub, "c")
	hub.Register(slow)
	hub.Register(healthy)

	// Fill the slow client's buffer so further deliveries drop.
	slow.Enqueue([]byte("backlog"))

	d.DispatchMessage(context.Background(), chat, sampleMessage("c1", "a"))

	if len(healthy.send) != 1 {
		t.Fatal("a full buffer on one recipient must not affect the others")
	}
}

func TestDispatchEventExcludesActor(t *testing.T) {
	chat := &models.Chat{ID: "c1", Members: []string{"a", "b"}}
	hub, d := dispatcherFixture(chat)
	actor := testClient(hub, "a")
	other := testClient(hub, "b")
	hub.Register(actor)
	hub.Register(other)

	d.DispatchEvent(context.Background(), chat, "a", Event{
		Kind: EventTyping,
		Data: map[string]any{"chat_id": "c1", "user_id": "a", "is_typing": true},
	})

	if len(actor.send) != 0 {
		t.Fatal("actor must not receive their own event")
	}
	if len(other.send) != 1 {
		t.Fatalf("other member expected 1 event, got %d", len(other.send))
	}
}
