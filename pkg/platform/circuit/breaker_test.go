package circuit

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) TestOpensAfterThreshold() {
	b := New("lookup", WithFailureThreshold(3))

	s.False(b.RecordFailure().Changed())
	s.False(b.RecordFailure().Changed())
	change := b.RecordFailure()

	s.True(change.Opened)
	s.True(b.IsOpen())
	s.Equal("open", b.Counts().State.String())
}

func (s *BreakerSuite) TestSuccessResetsFailureStreak() {
	b := New("lookup", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()

	s.False(b.IsOpen())
	s.Equal(1, b.Counts().ConsecutiveFailures)
}

func (s *BreakerSuite) TestClosesAfterSuccessThreshold() {
	b := New("lookup", WithFailureThreshold(1), WithSuccessThreshold(2))
	s.True(b.RecordFailure().Opened)

	s.Run("single success keeps it open", func() {
		s.False(b.RecordSuccess().Changed())
		s.True(b.IsOpen())
	})

	s.Run("failure while open restarts the success streak", func() {
		s.False(b.RecordFailure().Changed())
		s.Equal(0, b.Counts().ConsecutiveSuccesses)
	})

	s.Run("consecutive successes close it", func() {
		b.RecordSuccess()
		s.True(b.RecordSuccess().Closed)
		s.False(b.IsOpen())
		s.Equal(Counts{State: StateClosed}, b.Counts())
	})
}

func (s *BreakerSuite) TestInvalidOptionsKeepDefaults() {
	b := New("lookup", WithFailureThreshold(0), WithSuccessThreshold(-1), nil)
	s.Equal("lookup", b.Name())
	for range 4 {
		b.RecordFailure()
	}
	s.False(b.IsOpen())
	s.True(b.RecordFailure().Opened)

	b.Reset()
	s.False(b.IsOpen())
}
