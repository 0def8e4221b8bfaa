package tokenstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blogfront/internal/dependencies/mocks"
	"github.com/mcoot/blogfront/internal/tokenstore"
	"github.com/mcoot/blogfront/internal/tokenstore/storetest"
)

type MemorySuite struct {
	storetest.ContractSuite
	clock *mocks.MockClock
}

func TestMemorySuite(t *testing.T) {
	s := new(MemorySuite)
	s.NewStore = func() tokenstore.Store {
		s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		return tokenstore.NewMemory(s.clock)
	}
	s.Expire = func(d time.Duration) { s.clock.Advance(d) }
	suite.Run(t, s)
}

func (s *MemorySuite) TestZeroTTLNeverExpires() {
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", 0))
	s.clock.Advance(365 * 24 * time.Hour)

	token, ok := s.Store.Get(s.Ctx)
	s.True(ok)
	s.Equal("tok-1", token)
}
