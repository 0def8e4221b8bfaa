package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blogfront/internal/apiclient"
)

type DecodeSuite struct {
	suite.Suite
	status int
	body   string
	client *apiclient.Client
}

func TestDecodeSuite(t *testing.T) {
	suite.Run(t, new(DecodeSuite))
}

func (s *DecodeSuite) SetupTest() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.body))
	}))
	s.T().Cleanup(srv.Close)
	s.client = apiclient.New(srv.URL)
}

func (s *DecodeSuite) respond(status int, body string) {
	s.status = status
	s.body = body
}

func (s *DecodeSuite) TestErrorFieldPreferred() {
	s.respond(http.StatusBadRequest, `{"error":"Email already registered","message":"ignored"}`)

	_, err := s.client.ListTags(context.Background())
	s.EqualError(err, "Email already registered")
	s.Equal("Email already registered", apiclient.Message(err, "fallback"))
}

func (s *DecodeSuite) TestMessageField() {
	s.respond(http.StatusBadRequest, `{"message":"Title is required"}`)

	_, err := s.client.ListTags(context.Background())
	s.EqualError(err, "Title is required")
}

func (s *DecodeSuite) TestNestedErrorObject() {
	s.respond(http.StatusConflict, `{"error":{"code":"X","message":"Nested message"}}`)

	_, err := s.client.ListTags(context.Background())
	s.EqualError(err, "Nested message")
}

func (s *DecodeSuite) TestNoMessageUsesFallback() {
	s.respond(http.StatusInternalServerError, `<html>oops</html>`)

	_, err := s.client.ListTags(context.Background())
	s.EqualError(err, "HTTP 500")
	s.Equal("Login failed", apiclient.Message(err, "Login failed"))
}

func (s *DecodeSuite) TestMeBareIdentity() {
	s.respond(http.StatusOK, `{"id":7,"email":"a@b.c","username":"a","is_admin":true}`)

	id, err := s.client.Me(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(7), id.ID)
	s.True(id.IsAdmin)
}

func (s *DecodeSuite) TestMeWrappedIdentity() {
	s.respond(http.StatusOK, `{"data":{"id":8,"email":"d@e.f","username":"d","role":"editor"}}`)

	id, err := s.client.Me(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(8), id.ID)
	s.Equal("editor", string(id.Role()))
}

func (s *DecodeSuite) TestMeUserKey() {
	s.respond(http.StatusOK, `{"user":{"id":9,"email":"g@h.i","username":"g"}}`)

	id, err := s.client.Me(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(9), id.ID)
}

func (s *DecodeSuite) TestMeEmptyIsError() {
	s.respond(http.StatusOK, `{}`)

	_, err := s.client.Me(context.Background())
	s.ErrorIs(err, apiclient.ErrMissingIdentity)
}

func (s *DecodeSuite) TestMeNullIsError() {
	s.respond(http.StatusOK, `null`)

	_, err := s.client.Me(context.Background())
	s.ErrorIs(err, apiclient.ErrMissingIdentity)
}

func (s *DecodeSuite) TestLoginWithoutTokenIsError() {
	s.respond(http.StatusOK, `{"user":{"id":1}}`)

	_, err := s.client.Login(context.Background(), "a@b.c", "pw")
	s.ErrorIs(err, apiclient.ErrMissingToken)
}
