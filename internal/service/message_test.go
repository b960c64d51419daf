package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/ws"
)

type messageFixture struct {
	users      *fakeUserRepo
	chats      *fakeChatRepo
	messages   *fakeMessageRepo
	dispatcher *fakeDispatcher
	publisher  *fakePublisher
	svc        *MessageService
}

func newMessageFixture() *messageFixture {
	f := &messageFixture{
		users:      newFakeUserRepo(),
		chats:      newFakeChatRepo(),
		messages:   newFakeMessageRepo(),
		dispatcher: &fakeDispatcher{},
		publisher:  &fakePublisher{},
	}
	f.svc = NewMessageService(f.chats, f.messages, f.users, f.dispatcher, f.publisher, zap.NewNop().Sugar())
	return f
}

func (f *messageFixture) directChat(t *testing.T) (a, b *models.User, chat *models.Chat) {
	t.Helper()
	a = f.users.addUser("alice")
	b = f.users.addUser("bob")
	chat = &models.Chat{Members: []string{a.ID, b.ID}, PairKey: models.PairKeyFor(a.ID, b.ID)}
	if err := f.chats.Create(context.Background(), chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return a, b, chat
}

func TestSendPersistsAndUpdatesLatest(t *testing.T) {
	f := newMessageFixture()
	a, _, chat := f.directChat(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, a.ID, chat.ID, "hi", "text")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID == "" || msg.CreatedAt.IsZero() {
		t.Fatal("expected server-assigned id and timestamp")
	}
	if msg.Sender == nil || msg.Sender.ID != a.ID {
		t.Fatalf("expected expanded sender, got %+v", msg.Sender)
	}

	history, err := f.svc.History(ctx, a.ID, chat.ID, 50, timeZero())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Content != "hi" {
		t.Fatalf("expected the sent message in history, got %v", history)
	}

	stored := f.chats.chats[chat.ID]
	if stored.LatestMessage == nil || stored.LatestMessage.ID != msg.ID {
		t.Fatalf("latest message pointer not updated: %+v", stored.LatestMessage)
	}
	if len(f.dispatcher.messages) != 1 {
		t.Fatalf("expected one dispatched message, got %d", len(f.dispatcher.messages))
	}
	if len(f.publisher.published) != 1 || f.publisher.published[0] != chat.ID {
		t.Fatalf("expected one published event for %s, got %v", chat.ID, f.publisher.published)
	}
}

func TestSendOrderingPerSender(t *testing.T) {
	f := newMessageFixture()
	a, _, chat := f.directChat(t)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		if _, err := f.svc.Send(ctx, a.ID, chat.ID, content, "text"); err != nil {
			t.Fatalf("send %q: %v", content, err)
		}
	}
	history, err := f.svc.History(ctx, a.ID, chat.ID, 50, timeZero())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := []string{"one", "two", "three"}
	for i, m := range history {
		if m.Content != want[i] {
			t.Fatalf("history out of order: got %q at %d, want %q", m.Content, i, want[i])
		}
	}
}

func TestSendValidation(t *testing.T) {
	f := newMessageFixture()
	a, _, chat := f.directChat(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		chatID  string
		content string
		msgType string
	}{
		{"empty content", chat.ID, "", "text"},
		{"unknown chat", "missing", "hi", "text"},
		{"bad type", chat.ID, "hi", "sticker"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Send(ctx, a.ID, tc.chatID, tc.content, tc.msgType)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestSendRequiresMembership(t *testing.T) {
	f := newMessageFixture()
	_, _, chat := f.directChat(t)
	outsider := f.users.addUser("carol")

	_, err := f.svc.Send(context.Background(), outsider.ID, chat.ID, "hi", "text")
	if !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("got %v, want ErrAuthorization", err)
	}
	if len(f.messages.messages) != 0 {
		t.Fatal("unauthorized message must not be persisted")
	}
}

func TestSendAfterRemovalFails(t *testing.T) {
	f := newMessageFixture()
	_, b, chat := f.directChat(t)
	ctx := context.Background()

	if _, err := f.svc.Send(ctx, b.ID, chat.ID, "still here", "text"); err != nil {
		t.Fatalf("send before removal: %v", err)
	}
	if err := f.chats.RemoveMember(ctx, chat.ID, b.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	_, err := f.svc.Send(ctx, b.ID, chat.ID, "x", "text")
	if !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("got %v, want ErrAuthorization", err)
	}
}

func TestSendAnnouncementAdminOnly(t *testing.T) {
	f := newMessageFixture()
	admin := f.users.addUser("admin")
	member := f.users.addUser("member")
	chat := &models.Chat{
		Name:           "news",
		IsGroup:        true,
		IsAnnouncement: true,
		AdminID:        admin.ID,
		Members:        []string{admin.ID, member.ID},
	}
	if err := f.chats.Create(context.Background(), chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if _, err := f.svc.Send(context.Background(), member.ID, chat.ID, "hi", "text"); !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("member post: got %v, want ErrAuthorization", err)
	}
	if _, err := f.svc.Send(context.Background(), admin.ID, chat.ID, "update", "text"); err != nil {
		t.Fatalf("admin post: %v", err)
	}
}

func TestSendSurvivesLatestPointerFailure(t *testing.T) {
	f := newMessageFixture()
	a, _, chat := f.directChat(t)
	f.chats.failSetLatest = true

	msg, err := f.svc.Send(context.Background(), a.ID, chat.ID, "hi", "text")
	if err != nil {
		t.Fatalf("send must prefer message durability: %v", err)
	}
	if _, err := f.messages.FindByID(context.Background(), msg.ID); err != nil {
		t.Fatalf("message must be persisted despite pointer failure: %v", err)
	}
}

func TestSendSurvivesPublishFailure(t *testing.T) {
	f := newMessageFixture()
	a, _, chat := f.directChat(t)
	f.publisher.err = errors.New("broker down")

	if _, err := f.svc.Send(context.Background(), a.ID, chat.ID, "hi", "text"); err != nil {
		t.Fatalf("publish failure must not fail ingest: %v", err)
	}
	if len(f.dispatcher.messages) != 1 {
		t.Fatal("fan-out must still happen")
	}
}

func TestHistoryRequiresMembership(t *testing.T) {
	f := newMessageFixture()
	_, _, chat := f.directChat(t)
	outsider := f.users.addUser("carol")

	_, err := f.svc.History(context.Background(), outsider.ID, chat.ID, 50, timeZero())
	if !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("got %v, want ErrAuthorization", err)
	}
}

func TestDeleteSenderOnly(t *testing.T) {
	f := newMessageFixture()
	a, b, chat := f.directChat(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, a.ID, chat.ID, "hi", "text")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := f.svc.Delete(ctx, b.ID, msg.ID); !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("non-sender delete: got %v, want ErrAuthorization", err)
	}
	if err := f.svc.Delete(ctx, a.ID, msg.ID); err != nil {
		t.Fatalf("sender delete: %v", err)
	}
	if _, err := f.messages.FindByID(ctx, msg.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatal("message must be hard deleted")
	}
}

func TestDeleteRefreshesLatestPointer(t *testing.T) {
	f := newMessageFixture()
	a, _, chat := f.directChat(t)
	ctx := context.Background()

	first, err := f.svc.Send(ctx, a.ID, chat.ID, "first", "text")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	second, err := f.svc.Send(ctx, a.ID, chat.ID, "second", "text")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := f.svc.Delete(ctx, a.ID, second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stored := f.chats.chats[chat.ID]
	if stored.LatestMessage == nil || stored.LatestMessage.ID != first.ID {
		t.Fatalf("latest pointer should fall back to %s, got %+v", first.ID, stored.LatestMessage)
	}
}

func TestMarkReadDispatchesEvent(t *testing.T) {
	f := newMessageFixture()
	a, b, chat := f.directChat(t)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, a.ID, chat.ID, "hi", "text")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := f.svc.MarkRead(ctx, b.ID, chat.ID, []string{msg.ID}); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	stored, _ := f.messages.FindByID(ctx, msg.ID)
	if len(stored.ReadBy) != 1 || stored.ReadBy[0] != b.ID {
		t.Fatalf("read mark not persisted: %v", stored.ReadBy)
	}
	found := false
	for _, ev := range f.dispatcher.events {
		if ev.event.Kind == ws.EventMessagesRead && ev.actorID == b.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a messages read event")
	}
}

func TestTypingRequiresMembership(t *testing.T) {
	f := newMessageFixture()
	_, _, chat := f.directChat(t)
	outsider := f.users.addUser("carol")

	err := f.svc.Typing(context.Background(), outsider.ID, chat.ID, true)
	if !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("got %v, want ErrAuthorization", err)
	}
	if len(f.dispatcher.events) != 0 {
		t.Fatal("nothing should be dispatched for outsiders")
	}
}
