package tokenstore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blogfront/internal/dependencies/mocks"
	"github.com/mcoot/blogfront/internal/testutil"
	"github.com/mcoot/blogfront/internal/tokenstore"
	"github.com/mcoot/blogfront/internal/tokenstore/storetest"
)

type FileSuite struct {
	storetest.ContractSuite
	clock *mocks.MockClock
	path  string
}

func TestFileSuite(t *testing.T) {
	s := new(FileSuite)
	s.NewStore = func() tokenstore.Store {
		s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		s.path = filepath.Join(s.T().TempDir(), "nested", "token")
		return tokenstore.NewFile(s.path, s.clock, testutil.NopLogger())
	}
	s.Expire = func(d time.Duration) { s.clock.Advance(d) }
	suite.Run(t, s)
}

func (s *FileSuite) TestFileIsOwnerOnly() {
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))

	info, err := os.Stat(s.path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o600), info.Mode().Perm())
}

func (s *FileSuite) TestClearRemovesFile() {
	s.Require().NoError(s.Store.Set(s.Ctx, "tok-1", time.Hour))
	s.Require().NoError(s.Store.Clear(s.Ctx))

	_, err := os.Stat(s.path)
	s.True(os.IsNotExist(err))
}

func (s *FileSuite) TestReadsBareTokenFile() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, []byte("legacy-token\n"), 0o600))

	token, ok := s.Store.Get(s.Ctx)
	s.True(ok)
	s.Equal("legacy-token", token)
}

func (s *FileSuite) TestEmptyFileIsAbsent() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, []byte(""), 0o600))

	_, ok := s.Store.Get(s.Ctx)
	s.False(ok)
}
