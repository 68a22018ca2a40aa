package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"heritage_pulse/internal/domain"
)

// Sessions is the conversation store. History lives under one key per
// conversation id; the TTL is refreshed on every write, so idle
// conversations evict themselves.
type Sessions struct{ c *redis.Client }

func NewSessions(addr, pass string, db int) *Sessions {
	return &Sessions{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func sessionKey(id string) string { return "chat:" + id }

func (s *Sessions) Get(ctx context.Context, conversationID string) ([]domain.ChatMessage, bool, error) {
	v, err := s.c.Get(ctx, sessionKey(conversationID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var msgs []domain.ChatMessage
	if err := json.Unmarshal(v, &msgs); err != nil {
		return nil, false, err
	}
	return msgs, true, nil
}

func (s *Sessions) Put(ctx context.Context, conversationID string, messages []domain.ChatMessage, ttl time.Duration) error {
	b, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return s.c.Set(ctx, sessionKey(conversationID), b, ttl).Err()
}

func (s *Sessions) Evict(ctx context.Context, conversationID string) error {
	return s.c.Del(ctx, sessionKey(conversationID)).Err()
}
