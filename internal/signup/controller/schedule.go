package controller

import (
	"context"
	"time"

	"signup/internal/signup/models"
)

// resolver performs one lookup and returns the state update to apply, or nil for none.
// It runs without the controller lock; the returned func runs with it held.
type resolver func(ctx context.Context) func()

// schedule replaces whatever is pending on field's slot with a new lookup.
// The lookup context keeps the caller's values but not its deadline, since the request
// that triggered the change usually returns before the lookup does. Must hold c.mu.
func (c *Controller) schedule(ctx context.Context, field models.Field, run resolver) {
	s := c.slot(field)
	c.stop(s)
	s.gen++
	gen := s.gen

	lookupCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	c.begin(s)

	job := func() {
		apply := run(lookupCtx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if s.gen != gen {
			return
		}
		if apply != nil && !c.closed {
			apply()
		}
		s.timer = nil
		s.cancel = nil
		cancel()
		c.end(s)
	}

	if c.debounce > 0 {
		s.timer = time.AfterFunc(c.debounce, job)
		return
	}
	go job()
}

// clearSlot cancels anything pending on field and marks it idle. Must hold c.mu.
func (c *Controller) clearSlot(field models.Field) {
	s, ok := c.slots[field]
	if !ok {
		return
	}
	c.stop(s)
	s.gen++
	c.end(s)
}

func (c *Controller) slot(field models.Field) *slot {
	s, ok := c.slots[field]
	if !ok {
		s = &slot{}
		c.slots[field] = s
	}
	return s
}

// stop halts the slot's timer and cancels its request. A job that already started
// observes the cancelled context and a stale generation, and applies nothing.
func (c *Controller) stop(s *slot) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (c *Controller) begin(s *slot) {
	if s.active {
		return
	}
	s.active = true
	if c.inflight == 0 {
		c.idle = make(chan struct{})
	}
	c.inflight++
}

func (c *Controller) end(s *slot) {
	if !s.active {
		return
	}
	s.active = false
	c.inflight--
	if c.inflight == 0 {
		close(c.idle)
	}
}
