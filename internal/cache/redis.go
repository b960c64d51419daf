package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourorg/chatapp/internal/apperr"
)

// Client wraps Redis for the short-lived keyed state the core needs: OTP
// codes with TTL, per-phone request counters, and the online-presence
// mirror. Everything here is expendable; the document store stays the
// source of truth.
type Client struct {
	rdb    *redis.Client
	prefix string
}

func New(ctx context.Context, addr, password string, db int, prefix string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{rdb: rdb, prefix: prefix}, nil
}

func (c *Client) key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (c *Client) Close() error { return c.rdb.Close() }

// --- OTP store (expiring keyed cache, survives multi-instance deployment) ---

func (c *Client) SetOTP(ctx context.Context, phone, code string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key("otp", phone), code, ttl).Err()
}

func (c *Client) GetOTP(ctx context.Context, phone string) (string, error) {
	code, err := c.rdb.Get(ctx, c.key("otp", phone)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.ErrOTPExpired
	}
	return code, err
}

func (c *Client) DeleteOTP(ctx context.Context, phone string) error {
	return c.rdb.Del(ctx, c.key("otp", phone)).Err()
}

// CountOTPRequest increments the per-phone request counter, starting the
// window on the first hit.
func (c *Client) CountOTPRequest(ctx context.Context, phone string, window time.Duration) (int64, error) {
	k := c.key("otp_requests", phone)
	count, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = c.rdb.Expire(ctx, k, window).Err()
	}
	return count, nil
}

// --- request rate limiting ---

// Hit counts one request against key and reports the running total in the
// window.
func (c *Client) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.key("ratelimit", key)
	count, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = c.rdb.Expire(ctx, k, window).Err()
	}
	return count, nil
}

// --- presence mirror ---

func (c *Client) SetOnline(ctx context.Context, userID string) error {
	return c.rdb.SAdd(ctx, c.key("online"), userID).Err()
}

func (c *Client) SetOffline(ctx context.Context, userID string) error {
	return c.rdb.SRem(ctx, c.key("online"), userID).Err()
}

func (c *Client) OnlineUsers(ctx context.Context) ([]string, error) {
	users, err := c.rdb.SMembers(ctx, c.key("online")).Result()
	if err != nil {
		return nil, fmt.Errorf("presence lookup: %w", err)
	}
	return users, nil
}
