package session

import (
	"context"
	"sync"
	"time"

	"signup/internal/signup/controller"
	id "signup/pkg/domain"
)

// Session is one mounted form and the bookkeeping around it.
type Session struct {
	ID        id.SessionID
	Form      *controller.Controller
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	route    string
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Route returns the route the form navigated to, or "" while the form is still open.
func (s *Session) Route() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// navigator records the form's navigation on its session.
type navigator struct {
	session *Session
}

func (n *navigator) Navigate(_ context.Context, route string) error {
	n.session.mu.Lock()
	defer n.session.mu.Unlock()
	n.session.route = route
	return nil
}

var _ controller.Navigator = (*navigator)(nil)
