// Package storetest exercises the behavior every tokenstore.Store must share.
package storetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blogfront/internal/tokenstore"
)

// ContractSuite runs the shared Store checks against a backend.
// Embed it and set NewStore, plus Expire for backends whose expiry can be driven.
type ContractSuite struct {
	suite.Suite

	// NewStore returns an empty store for each test
	NewStore func() tokenstore.Store

	// Expire moves the backend's notion of time forward by d; nil skips expiry tests
	Expire func(d time.Duration)

	Store tokenstore.Store
	Ctx   context.Context
}

func (s *ContractSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.Store = s.NewStore()
	s.Ctx = context.Background()
}

func (s *ContractSuite) TestEmptyStoreIsAbsent() {
	_, ok := s.Store.Get(s.Ctx)
	s.False(ok)
}

func (s *ContractSuite) TestGetAfterSet() {
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))

	token, ok := s.Store.Get(s.Ctx)
	s.True(ok)
	s.Equal("tok-1", token)
}

func (s *ContractSuite) TestSetOverwrites() {
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-2", time.Hour))

	token, ok := s.Store.Get(s.Ctx)
	s.True(ok)
	s.Equal("tok-2", token)
}

func (s *ContractSuite) TestGetAfterClearIsAbsent() {
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))
	s.Require().NoError(s.Store.Clear(s.Ctx))

	_, ok := s.Store.Get(s.Ctx)
	s.False(ok)
}

func (s *ContractSuite) TestClearIsIdempotent() {
	s.NoError(s.Store.Clear(s.Ctx))
	s.NoError(s.Store.Clear(s.Ctx))

	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))
	s.NoError(s.Store.Clear(s.Ctx))
	s.NoError(s.Store.Clear(s.Ctx))

	_, ok := s.Store.Get(s.Ctx)
	s.False(ok)
}

func (s *ContractSuite) TestSetAfterClear() {
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))
	s.Require().NoError(s.Store.Clear(s.Ctx))
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-2", time.Hour))

	token, ok := s.Store.Get(s.Ctx)
	s.True(ok)
	s.Equal("tok-2", token)
}

func (s *ContractSuite) TestTokenExpires() {
	if s.Expire == nil {
		s.T().Skip("backend expiry is not controllable")
	}

	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))

	s.Expire(59 * time.Minute)
	token, ok := s.Store.Get(s.Ctx)
	s.True(ok)
	s.Equal("tok-1", token)

	s.Expire(2 * time.Minute)
	_, ok = s.Store.Get(s.Ctx)
	s.False(ok)
}
