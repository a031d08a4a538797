package session

import (
	"context"
	"sync"
	"time"

	"signup/internal/platform/metrics"
	"signup/internal/signup/controller"
	id "signup/pkg/domain"
	dErrors "signup/pkg/domain-errors"
	syncutil "signup/pkg/platform/sync"
)

const defaultTTL = 30 * time.Minute

// FormFactory builds the controller for a new session around its navigator.
type FormFactory func(nav controller.Navigator) *controller.Controller

// Store keeps form sessions in memory. Sessions idle for longer than the TTL are
// removed by DeleteExpired.
type Store struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session

	newForm FormFactory
	ttl     time.Duration
	locks   *syncutil.ShardedMutex
	metrics *metrics.Metrics
}

type Option func(*Store)

// WithTTL sets how long a session may stay idle. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// New creates an empty store.
func New(newForm FormFactory, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[id.SessionID]*Session),
		newForm:  newForm,
		ttl:      defaultTTL,
		locks:    syncutil.NewShardedMutex(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the idle timeout.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create starts a new session with a fresh form.
func (s *Store) Create(_ context.Context, now time.Time) (*Session, error) {
	sess := &Session{
		ID:        id.NewSessionID(),
		CreatedAt: now,
		lastSeen:  now,
	}
	sess.Form = s.newForm(&navigator{session: sess})

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ID]; exists {
		sess.Form.Close()
		return nil, dErrors.New(dErrors.CodeConflict, "session ID collision")
	}
	s.sessions[sess.ID] = sess
	if s.metrics != nil {
		s.metrics.IncrementSessionsCreated()
	}
	return sess, nil
}

// Get returns the session and marks it as seen at now. Sessions past their idle
// timeout are reported as not found even before the sweeper removes them.
func (s *Store) Get(_ context.Context, sessionID id.SessionID, now time.Time) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || sess.idleSince(now) > s.ttl {
		return nil, dErrors.New(dErrors.CodeNotFound, "form session not found")
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes the session and closes its form.
func (s *Store) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "form session not found")
	}
	sess.Form.Close()
	if s.metrics != nil {
		s.metrics.SessionsRemoved(false, 1)
	}
	return nil
}

// DeleteExpired removes every session idle for longer than the TTL as of now.
func (s *Store) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	var expired []*Session
	for sid, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			expired = append(expired, sess)
			delete(s.sessions, sid)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Form.Close()
	}
	if s.metrics != nil && len(expired) > 0 {
		s.metrics.SessionsRemoved(true, len(expired))
	}
	return len(expired), nil
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// WithLock serialises fn against other requests for the same session.
func (s *Store) WithLock(sessionID id.SessionID, fn func() error) error {
	return s.locks.WithLock(sessionID.String(), fn)
}

// CloseAll closes every form and empties the store.
func (s *Store) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[id.SessionID]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Form.Close()
	}
	if s.metrics != nil && len(sessions) > 0 {
		s.metrics.SessionsRemoved(false, len(sessions))
	}
}
