package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"claim-verify-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps sessions in redis so multiple instances can serve
// status reads. Advance calls still need instance affinity because the
// live tracker is in-process.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func key(sessionId string) string {
	return "verify:session:" + sessionId
}

func (s *SessionStore) Put(ctx context.Context, session *entity.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, key(session.Id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sessionId string) (*entity.Session, bool, error) {
	payload, err := s.rdb.Get(ctx, key(sessionId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionId string) error {
	if err := s.rdb.Del(ctx, key(sessionId)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
