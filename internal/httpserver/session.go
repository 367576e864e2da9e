package httpserver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/storefront"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Session is one browser's storefront instance. The mutex serializes all
// access to the session's bus and models: within a session there is no
// interleaving, across sessions requests run concurrently.
type Session struct {
	ID  string
	App *storefront.App

	mu       sync.Mutex
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// SessionStore keeps per-session apps in memory, keyed by UUID. Sessions
// expire after the TTL; expired state is simply dropped, persistence
// across sessions is out of scope.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl    time.Duration
	newApp func() (*storefront.App, error)
	logger *slog.Logger
	active prometheus.Gauge
}

func NewSessionStore(ttl time.Duration, newApp func() (*storefront.App, error), logger *slog.Logger, active prometheus.Gauge) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		newApp:   newApp,
		logger:   logger,
		active:   active,
	}
}

// Get returns the session with the given id and marks it as seen.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = time.Now()
	return sess, true
}

// Create builds a fresh session and runs its startup catalog fetch.
func (s *SessionStore) Create(ctx context.Context) (*Session, error) {
	app, err := s.newApp()
	if err != nil {
		return nil, err
	}
	app.Start(ctx)

	sess := &Session{
		ID:       uuid.NewString(),
		App:      app,
		lastSeen: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.active.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", sess.ID)
	return sess, nil
}

// Sweep evicts expired sessions until ctx is cancelled.
func (s *SessionStore) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *SessionStore) evictExpired() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Info("session expired", "session_id", id)
		}
	}
	s.active.Set(float64(len(s.sessions)))
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
