package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client      *redis.Client
	prefix      string
	idleTimeout time.Duration
	now         func() time.Time
}

// NewRedisStore creates a Redis-backed session store. Keys carry a TTL of
// idleTimeout after each save, so abandoned dialogs disappear on their own.
func NewRedisStore(client *redis.Client, idleTimeout time.Duration) *RedisStore {
	return &RedisStore{
		client:      client,
		prefix:      "ussd:session:",
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) GetOrCreate(ctx context.Context, sessionID, phoneNumber string) (*Session, error) {
	s, err := r.Get(ctx, sessionID)
	if err == ErrNotFound {
		return New(sessionID, phoneNumber, r.now()), nil
	}
	return s, err
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	if s.FlowData == nil {
		s.FlowData = map[string]string{}
	}

	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if s == nil || s.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	// zero TTL keeps the key until ScheduleExpiry
	return r.client.Set(ctx, r.key(s.SessionID), data, r.idleTimeout).Err()
}

func (r *RedisStore) ScheduleExpiry(ctx context.Context, sessionID string, delay time.Duration) error {
	if delay <= 0 {
		return r.Delete(ctx, sessionID)
	}
	return r.client.PExpire(ctx, r.key(sessionID), delay).Err()
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *RedisStore) List(ctx context.Context) ([]Session, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("session: scan: %w", err)
	}
	sort.Strings(keys)

	out := make([]Session, 0, len(keys))
	for _, k := range keys {
		s, err := r.Get(ctx, k[len(r.prefix):])
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}
