package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/ws"
)

// In-memory repository fakes. Timestamps are handed out from a counter so
// ordering assertions are deterministic.

type fakeClock struct {
	base time.Time
	n    int
}

func (c *fakeClock) next() time.Time {
	c.n++
	return c.base.Add(time.Duration(c.n) * time.Millisecond)
}

var clock = &fakeClock{base: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

func timeZero() time.Time { return time.Time{} }

type fakeUserRepo struct {
	users map[string]*models.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) addUser(name string) *models.User {
	u := &models.User{Name: name, PhoneNumber: "+1" + name}
	_ = r.Create(context.Background(), u)
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.seq++
	u.ID = fmt.Sprintf("u%d", r.seq)
	u.CreatedAt = clock.next()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Search(_ context.Context, query string, _ int64) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if strings.HasPrefix(u.Name, query) || u.PhoneNumber == query {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	chats         map[string]*models.Chat
	seq           int
	failSetLatest bool
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*models.Chat)}
}

func (r *fakeChatRepo) Create(_ context.Context, c *models.Chat) error {
	if c.PairKey != "" {
		for _, existing := range r.chats {
			if existing.PairKey == c.PairKey {
				return errors.New("duplicate key")
			}
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("c%d", r.seq)
	c.CreatedAt = clock.next()
	r.chats[c.ID] = c
	return nil
}

func (r *fakeChatRepo) FindByID(_ context.Context, id string) (*models.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *c
	cp.Members = append([]string(nil), c.Members...)
	return &cp, nil
}

func (r *fakeChatRepo) FindDirect(_ context.Context, pairKey string) (*models.Chat, error) {
	for _, c := range r.chats {
		if c.PairKey == pairKey {
			return c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeChatRepo) ListForUser(_ context.Context, userID string) ([]*models.Chat, error) {
	var out []*models.Chat
	for _, c := range r.chats {
		if c.HasMember(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeChatRepo) Rename(_ context.Context, chatID, name string) error {
	c, ok := r.chats[chatID]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Name = name
	return nil
}

func (r *fakeChatRepo) AddMember(_ context.Context, chatID, userID string) error {
	c, ok := r.chats[chatID]
	if !ok {
		return apperr.ErrNotFound
	}
	if !c.HasMember(userID) {
		c.Members = append(c.Members, userID)
	}
	return nil
}

func (r *fakeChatRepo) RemoveMember(_ context.Context, chatID, userID string) error {
	c, ok := r.chats[chatID]
	if !ok {
		return apperr.ErrNotFound
	}
	out := c.Members[:0]
	for _, m := range c.Members {
		if m != userID {
			out = append(out, m)
		}
	}
	c.Members = out
	return nil
}

func (r *fakeChatRepo) SetLatestMessage(_ context.Context, chatID string, m *models.Message) error {
	if r.failSetLatest {
		return errors.New("write failed")
	}
	c, ok := r.chats[chatID]
	if !ok {
		return apperr.ErrNotFound
	}
	c.LatestMessage = m
	return nil
}

func (r *fakeChatRepo) Delete(_ context.Context, chatID string) error {
	if _, ok := r.chats[chatID]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.chats, chatID)
	return nil
}

type fakeMessageRepo struct {
	messages []*models.Message
	seq      int
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func (r *fakeMessageRepo) Insert(_ context.Context, m *models.Message) error {
	r.seq++
	m.ID = fmt.Sprintf("m%d", r.seq)
	m.CreatedAt = clock.next()
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id string) (*models.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID string, limit int64, before time.Time) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range r.messages {
		if m.ChatID != chatID {
			continue
		}
		if !before.IsZero() && !m.CreatedAt.Before(before) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if int64(len(out)) > limit {
		out = out[int64(len(out))-limit:]
	}
	return out, nil
}

func (r *fakeMessageRepo) LatestForChat(_ context.Context, chatID string) (*models.Message, error) {
	var latest *models.Message
	for _, m := range r.messages {
		if m.ChatID != chatID {
			continue
		}
		if latest == nil || m.CreatedAt.After(latest.CreatedAt) {
			latest = m
		}
	}
	if latest == nil {
		return nil, apperr.ErrNotFound
	}
	return latest, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, chatID string, messageIDs []string, userID string) error {
	for _, m := range r.messages {
		if m.ChatID != chatID {
			continue
		}
		for _, id := range messageIDs {
			if m.ID == id {
				m.ReadBy = append(m.ReadBy, userID)
			}
		}
	}
	return nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id string) error {
	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

type fakeCommunityRepo struct {
	communities   map[string]*models.Community
	seq           int
	failAddMember bool
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{communities: make(map[string]*models.Community)}
}

func (r *fakeCommunityRepo) Create(_ context.Context, cm *models.Community) error {
	r.seq++
	cm.ID = fmt.Sprintf("cm%d", r.seq)
	cm.CreatedAt = clock.next()
	r.communities[cm.ID] = cm
	return nil
}

func (r *fakeCommunityRepo) FindByID(_ context.Context, id string) (*models.Community, error) {
	cm, ok := r.communities[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *cm
	cp.Members = append([]string(nil), cm.Members...)
	cp.GroupIDs = append([]string(nil), cm.GroupIDs...)
	return &cp, nil
}

func (r *fakeCommunityRepo) ListForUser(_ context.Context, userID string) ([]*models.Community, error) {
	var out []*models.Community
	for _, cm := range r.communities {
		if cm.HasMember(userID) {
			out = append(out, cm)
		}
	}
	return out, nil
}

func (r *fakeCommunityRepo) AddMember(_ context.Context, communityID, userID string) error {
	if r.failAddMember {
		return errors.New("write failed")
	}
	cm, ok := r.communities[communityID]
	if !ok {
		return apperr.ErrNotFound
	}
	if !cm.HasMember(userID) {
		cm.Members = append(cm.Members, userID)
	}
	return nil
}

func (r *fakeCommunityRepo) RemoveMember(_ context.Context, communityID, userID string) error {
	cm, ok := r.communities[communityID]
	if !ok {
		return apperr.ErrNotFound
	}
	out := cm.Members[:0]
	for _, m := range cm.Members {
		if m != userID {
			out = append(out, m)
		}
	}
	cm.Members = out
	return nil
}

func (r *fakeCommunityRepo) AddGroup(_ context.Context, communityID, chatID string) error {
	cm, ok := r.communities[communityID]
	if !ok {
		return apperr.ErrNotFound
	}
	if !cm.HasGroup(chatID) {
		cm.GroupIDs = append(cm.GroupIDs, chatID)
	}
	return nil
}

func (r *fakeCommunityRepo) RemoveGroup(_ context.Context, communityID, chatID string) error {
	cm, ok := r.communities[communityID]
	if !ok {
		return apperr.ErrNotFound
	}
	out := cm.GroupIDs[:0]
	for _, g := range cm.GroupIDs {
		if g != chatID {
			out = append(out, g)
		}
	}
	cm.GroupIDs = out
	return nil
}

type dispatchedEvent struct {
	chatID  string
	actorID string
	event   ws.Event
}

type fakeDispatcher struct {
	messages []*models.MessageWithSender
	events   []dispatchedEvent
}

func (d *fakeDispatcher) DispatchMessage(_ context.Context, _ *models.Chat, msg *models.MessageWithSender) {
	d.messages = append(d.messages, msg)
}

func (d *fakeDispatcher) DispatchEvent(_ context.Context, chat *models.Chat, actorID string, event ws.Event) {
	d.events = append(d.events, dispatchedEvent{chatID: chat.ID, actorID: actorID, event: event})
}

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) PublishMessageSent(_ context.Context, chatID string, _ any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, chatID)
	return nil
}
