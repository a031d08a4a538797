package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signup/internal/signup/controller"
)

type failingDeleter struct{}

func (failingDeleter) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, errors.New("boom")
}

func TestSweeperRunOnce(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := New(func(nav controller.Navigator) *controller.Controller {
		return controller.New(nil, nav, controller.WithLogger(logger))
	}, WithTTL(time.Minute))
	_, err := store.Create(ctx, start)
	require.NoError(t, err)

	sweeper, err := NewSweeper(store,
		WithSweepLogger(logger),
		WithSweepClock(func() time.Time { return start.Add(2 * time.Minute) }),
	)
	require.NoError(t, err)

	deleted, err := sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Zero(t, store.Count())
}

func TestSweeperRunOnceWrapsErrors(t *testing.T) {
	sweeper, err := NewSweeper(failingDeleter{}, WithSweepLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	_, err = sweeper.RunOnce(context.Background())
	assert.ErrorContains(t, err, "delete expired sessions")
}

func TestSweeperRequiresStore(t *testing.T) {
	_, err := NewSweeper(nil)
	assert.Error(t, err)
}

func TestSweeperStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sweeper, err := NewSweeper(failingDeleter{},
		WithSweepInterval(5*time.Millisecond),
		WithSweepLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
