package fakeapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/blogfront/internal/model"
)

// TokenTTL is the lifetime of issued tokens
const TokenTTL = 7 * 24 * time.Hour

type account struct {
	identity     model.Identity
	passwordHash []byte
}

type contextKey string

const identityContextKey contextKey = "identity"

// AddUser creates an account and returns its identity
func (s *Server) AddUser(email, username, password string, role model.Role) model.Identity {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: hash password: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := model.Identity{
		ID:          s.nextID,
		Email:       email,
		Username:    username,
		DisplayName: username,
		IsAdmin:     role == model.RoleAdmin,
		RoleName:    string(role),
	}
	s.nextID++
	s.accounts[strings.ToLower(email)] = &account{identity: id, passwordHash: hash}
	return id
}

// TokenFor issues a valid token for an existing account
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		panic("fakeapi: unknown account " + email)
	}
	token, err := s.issue(acc.identity.ID, TokenTTL)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: sign token: %v", err))
	}
	return token
}

// ExpiredTokenFor issues a token for email that has already expired
func (s *Server) ExpiredTokenFor(email string) string {
	s.mu.Lock()
	acc := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()
	token, err := s.issue(acc.identity.ID, -time.Minute)
	if err != nil {
		panic(fmt.Sprintf("fakeapi: sign token: %v", err))
	}
	return token
}

// Revoke makes token fail authentication from now on
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	s.revoked[token] = true
	s.mu.Unlock()
}

func (s *Server) issue(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		// Distinct per call so rotated tokens differ
		ID: strconv.FormatInt(now.UnixNano(), 36),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// authenticate resolves a bearer token to an identity
func (s *Server) authenticate(r *http.Request) (model.Identity, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return model.Identity{}, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return model.Identity{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[raw] {
		return model.Identity{}, false
	}
	for _, acc := range s.accounts {
		if strconv.FormatInt(acc.identity.ID, 10) == claims.Subject {
			return acc.identity, true
		}
	}
	return model.Identity{}, false
}

// requireAuth rejects requests without a valid token
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.authenticate(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityContextKey, id)))
	}
}

// requireRole rejects requests whose identity lacks role
func (s *Server) requireRole(role model.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
			if !caller(r).Role().AtLeast(role) {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next(w, r)
		})
	}
}

func caller(r *http.Request) model.Identity {
	id, _ := r.Context().Value(identityContextKey).(model.Identity)
	return id
}

func (s *Server) grant(w http.ResponseWriter, status int, id model.Identity) {
	token, err := s.issue(id.ID, TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	writeJSON(w, status, model.AuthGrant{Token: token, User: id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(r, &req) || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.grant(w, http.StatusOK, acc.identity)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(r, &req) || req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email, username and password are required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	s.mu.Lock()
	_, exists := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}

	id := s.AddUser(req.Email, req.Username, req.Password, model.RoleViewer)
	s.grant(w, http.StatusCreated, id)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, caller(r))
}

// ResetTokenFor returns the last reset token issued for email
func (s *Server) ResetTokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, owner := range s.resets {
		if owner == strings.ToLower(email) {
			return token
		}
	}
	return ""
}

func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(r, &req) || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	email := strings.ToLower(req.Email)
	s.mu.Lock()
	if _, ok := s.accounts[email]; ok {
		for token, owner := range s.resets {
			if owner == email {
				delete(s.resets, token)
			}
		}
		s.resets[fmt.Sprintf("reset-%d", s.nextID)] = email
		s.nextID++
	}
	s.mu.Unlock()

	// Same answer whether or not the account exists
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

func (s *Server) handleVerifyReset(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	s.mu.Lock()
	_, ok := s.resets[token]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": "Invalid or expired token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token           string `json:"token"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if !decodeBody(r, &req) || req.NewPassword != req.ConfirmPassword || len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	s.mu.Lock()
	email, ok := s.resets[req.Token]
	if ok {
		delete(s.resets, req.Token)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	if err := s.setPassword(email, req.NewPassword); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if !decodeBody(r, &req) || req.NewPassword != req.ConfirmPassword || len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	email := strings.ToLower(caller(r).Email)
	s.mu.Lock()
	acc := s.accounts[email]
	s.mu.Unlock()
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.CurrentPassword)) != nil {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	if err := s.setPassword(email, req.NewPassword); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (s *Server) setPassword(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.accounts[email].passwordHash = hash
	s.mu.Unlock()
	return nil
}
