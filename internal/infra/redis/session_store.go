package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"guess-the-app/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Controllers themselves stay in process (they own timers); Redis holds a
// liveness marker per session with the idle TTL, so a session whose marker
// expired is treated as gone even if it is still in the local map.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Controller
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Controller),
	}
}

// Put registers c and evicts local controllers whose marker has expired.
func (s *SessionStore) Put(c *app.Controller) {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(ctx)
	s.sessions[c.ID()] = c
	// best-effort liveness marker
	_ = s.client.Set(ctx, s.key(c.ID()), "1", s.ttl).Err()
}

// Len reports how many controllers are held locally.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweepLocked checks every local marker in one pipeline. When Redis is
// unreachable nothing is evicted.
func (s *SessionStore) sweepLocked(ctx context.Context) {
	if len(s.sessions) == 0 {
		return
	}
	pipe := s.client.Pipeline()
	checks := make(map[string]*redis.IntCmd, len(s.sessions))
	for id := range s.sessions {
		checks[id] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return
	}
	for id, cmd := range checks {
		if cmd.Val() == 0 {
			s.sessions[id].Close()
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) Get(sessionID string) (*app.Controller, bool) {
	s.mu.RLock()
	ctrl, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	ctx := context.Background()
	alive, err := s.client.Expire(ctx, s.key(sessionID), s.ttl).Result()
	if err == nil && !alive {
		s.Delete(sessionID)
		return nil, false
	}
	return ctrl, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	ctrl.Close()
	delete(s.sessions, sessionID)
	_ = s.client.Del(context.Background(), s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
