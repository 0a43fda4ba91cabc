package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/christophe-asselin/7-differences/internal/dependencies/mocks"
	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/storage/memory"
	"github.com/christophe-asselin/7-differences/internal/testutil"
)

type UserSuite struct {
	suite.Suite
	svc     *Service
	storage *memory.Storage
	clock   *mocks.MockClock
	ctx     context.Context
}

func (s *UserSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.svc = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *UserSuite) TestAddClaimsUsername() {
	user, err := s.svc.Add(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", user.Username)
	s.Empty(user.SocketID)
}

func (s *UserSuite) TestAddRejectsDuplicate() {
	_, err := s.svc.Add(s.ctx, "alice")
	s.Require().NoError(err)

	_, err = s.svc.Add(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *UserSuite) TestBindSocket() {
	_, err := s.svc.Add(s.ctx, "alice")
	s.Require().NoError(err)

	user, err := s.svc.BindSocket(s.ctx, "alice", "sock-1")
	s.Require().NoError(err)
	s.Equal("sock-1", user.SocketID)

	got, err := s.svc.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("sock-1", got.SocketID)
}

func (s *UserSuite) TestBindSocketUnknownUser() {
	_, err := s.svc.BindSocket(s.ctx, "ghost", "sock-1")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *UserSuite) TestRemove() {
	_, err := s.svc.Add(s.ctx, "alice")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Remove(s.ctx, "alice"))

	_, err = s.svc.Get(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *UserSuite) TestScheduledRemovalAfterGrace() {
	_, err := s.svc.Add(s.ctx, "alice")
	s.Require().NoError(err)
	_, err = s.svc.BindSocket(s.ctx, "alice", "sock-1")
	s.Require().NoError(err)

	s.svc.ScheduleRemoval("alice", "sock-1")
	s.clock.Advance(DisconnectGrace)

	s.Require().Eventually(func() bool {
		_, err := s.svc.Get(s.ctx, "alice")
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func (s *UserSuite) TestScheduledRemovalSkippedOnReconnect() {
	_, err := s.svc.Add(s.ctx, "alice")
	s.Require().NoError(err)
	_, err = s.svc.BindSocket(s.ctx, "alice", "sock-1")
	s.Require().NoError(err)

	s.svc.ScheduleRemoval("alice", "sock-1")

	// Reconnect on a new socket before the grace period elapses
	_, err = s.svc.BindSocket(s.ctx, "alice", "sock-2")
	s.Require().NoError(err)
	s.clock.Advance(DisconnectGrace)

	// The removal goroutine must observe the rebind and leave the user alone
	s.Require().Never(func() bool {
		_, err := s.svc.Get(s.ctx, "alice")
		return err != nil
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestUserSuite(t *testing.T) {
	suite.Run(t, new(UserSuite))
}
