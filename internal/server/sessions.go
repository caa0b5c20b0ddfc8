package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-form/internal/form"
)

type session struct {
	controller *form.Controller
	lastSeen   time.Time
}

// SessionStore keeps one form controller per browser session in memory.
// Sessions idle for longer than the TTL are evicted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration
	create   func() *form.Controller
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSessionStore creates a store that builds controllers with create. A
// cleanup goroutine runs every ttl/2 until Stop is called.
func NewSessionStore(ttl time.Duration, create func() *form.Controller) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &SessionStore{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		create:   create,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go s.cleanupLoop(ttl / 2)
	return s
}

// Get returns the controller for id, creating it on first use.
func (s *SessionStore) Get(id uuid.UUID) *form.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{controller: s.create()}
		s.sessions[id] = sess
	}
	sess.lastSeen = s.now()
	return sess.controller
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictIdle removes sessions not seen within the TTL and returns how many
// were removed.
func (s *SessionStore) evictIdle() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.evictIdle(); n > 0 {
				log.Printf("[server] Evicted %d idle form sessions", n)
			}
		case <-s.stop:
			return
		}
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (s *SessionStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
