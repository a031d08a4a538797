package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"signup/internal/platform/metrics"
	"signup/internal/signup/controller"
	"signup/internal/signup/models"
	id "signup/pkg/domain"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/testutil"
)

type StoreSuite struct {
	suite.Suite
	metrics *metrics.Metrics
	store   *Store
	now     time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = New(func(nav controller.Navigator) *controller.Controller {
		return controller.New(nil, nav, controller.WithLogger(logger))
	}, WithTTL(10*time.Minute), WithMetrics(s.metrics))
}

func (s *StoreSuite) TestCreateAndGet() {
	ctx := context.Background()

	sess, err := s.store.Create(ctx, s.now)
	s.Require().NoError(err)
	s.False(sess.ID.IsNil())
	s.NotNil(sess.Form)
	s.Equal(1, s.store.Count())
	s.Equal(1.0, promtest.ToFloat64(s.metrics.ActiveSessions))

	got, err := s.store.Get(ctx, sess.ID, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.Same(sess, got)
	s.Equal(s.now.Add(time.Minute), got.LastSeen())
}

func (s *StoreSuite) TestGetUnknown() {
	_, err := s.store.Get(context.Background(), testutil.TestIDs.SessionID1, s.now)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StoreSuite) TestGetIdleSessionIsNotFound() {
	ctx := context.Background()
	sess, err := s.store.Create(ctx, s.now)
	s.Require().NoError(err)

	_, err = s.store.Get(ctx, sess.ID, s.now.Add(11*time.Minute))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StoreSuite) TestDeleteClosesForm() {
	ctx := context.Background()
	sess, err := s.store.Create(ctx, s.now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(ctx, sess.ID))

	s.Zero(s.store.Count())
	s.ErrorIs(sess.Form.Change(ctx, models.FieldFirstName, "Zoe"), controller.ErrClosed)
	s.True(dErrors.HasCode(s.store.Delete(ctx, sess.ID), dErrors.CodeNotFound))
	s.Equal(0.0, promtest.ToFloat64(s.metrics.ActiveSessions))
}

func (s *StoreSuite) TestDeleteExpired() {
	ctx := context.Background()
	stale, err := s.store.Create(ctx, s.now)
	s.Require().NoError(err)
	fresh, err := s.store.Create(ctx, s.now)
	s.Require().NoError(err)
	_, err = s.store.Get(ctx, fresh.ID, s.now.Add(8*time.Minute))
	s.Require().NoError(err)

	deleted, err := s.store.DeleteExpired(ctx, s.now.Add(15*time.Minute))

	s.Require().NoError(err)
	s.Equal(1, deleted)
	s.Equal(1, s.store.Count())
	s.ErrorIs(stale.Form.Change(ctx, models.FieldFirstName, "Zoe"), controller.ErrClosed)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SessionsExpired))
}

func (s *StoreSuite) TestNavigatorRecordsRoute() {
	ctx := context.Background()
	sess, err := s.store.Create(ctx, s.now)
	s.Require().NoError(err)
	s.Empty(sess.Route())

	nav := &navigator{session: sess}
	s.Require().NoError(nav.Navigate(ctx, models.RouteWelcome))
	s.Equal(models.RouteWelcome, sess.Route())
}

func (s *StoreSuite) TestWithLockSerialisesPerSession() {
	sid := id.NewSessionID()
	inside := 0
	result := testutil.RunConcurrent(20, func(int) error {
		return s.store.WithLock(sid, func() error {
			inside++
			defer func() { inside-- }()
			if inside != 1 {
				return dErrors.New(dErrors.CodeConflict, "overlapping critical sections")
			}
			return nil
		})
	})
	s.Equal(int32(20), result.Successes)
	s.Zero(result.Conflicts)
}

func (s *StoreSuite) TestCloseAll() {
	ctx := context.Background()
	for range 3 {
		_, err := s.store.Create(ctx, s.now)
		s.Require().NoError(err)
	}

	s.store.CloseAll()

	s.Zero(s.store.Count())
	s.Equal(0.0, promtest.ToFloat64(s.metrics.ActiveSessions))
}
