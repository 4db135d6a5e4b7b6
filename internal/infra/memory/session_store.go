package memory

import (
	"sync"
	"time"

	"guess-the-app/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Entries expire after ttl without a Get; expired controllers are closed
// on the next Put.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	sessions map[string]*storedSession
}

type storedSession struct {
	ctrl      *app.Controller
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]*storedSession),
	}
}

func (s *SessionStore) Put(c *app.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			entry.ctrl.Close()
			delete(s.sessions, id)
		}
	}
	s.sessions[c.ID()] = &storedSession{ctrl: c, expiresAt: now.Add(s.ttl)}
}

func (s *SessionStore) Get(sessionID string) (*app.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	now := s.clock()
	if s.expired(entry, now) {
		entry.ctrl.Close()
		delete(s.sessions, sessionID)
		return nil, false
	}
	entry.expiresAt = now.Add(s.ttl)
	return entry.ctrl, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.sessions[sessionID]; ok {
		entry.ctrl.Close()
		delete(s.sessions, sessionID)
	}
}

// Len reports how many sessions are held, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(entry *storedSession, now time.Time) bool {
	return s.ttl > 0 && !entry.expiresAt.After(now)
}
