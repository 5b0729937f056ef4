package memory

import (
	"context"
	"time"

	"claim-verify-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

type SessionStore struct {
	cache *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Purge expired sessions every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionStore{
		cache: c,
	}
}

func (s *SessionStore) Put(_ context.Context, session *entity.Session) error {
	s.cache.Set(session.Id, session, cache.DefaultExpiration)
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionId string) (*entity.Session, bool, error) {
	if x, found := s.cache.Get(sessionId); found {
		return x.(*entity.Session), true, nil
	}
	return nil, false, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionId string) error {
	s.cache.Delete(sessionId)
	return nil
}
