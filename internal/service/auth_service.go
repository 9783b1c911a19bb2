package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/offline_console/internal/config"
	"github.com/GTDGit/offline_console/internal/utils"
)

// Session is an issued console login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	SessionID string    `json:"sessionId"`
}

// sessionRevoker records logged-out sessions. *cache.SessionCache implements it.
type sessionRevoker interface {
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	SessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

// AuthService authenticates the console operator against the configured
// admin account.
type AuthService struct {
	admin    config.AdminConfig
	tokens   *utils.TokenIssuer
	sessions sessionRevoker
	now      func() time.Time
}

// NewAuthService creates an AuthService. Without sessions, logout cannot
// revoke tokens.
func NewAuthService(admin config.AdminConfig, tokens *utils.TokenIssuer, sessions sessionRevoker) *AuthService {
	return &AuthService{admin: admin, tokens: tokens, sessions: sessions, now: time.Now}
}

// Login checks the credentials and issues a token bound to a new session.
func (s *AuthService) Login(email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if !strings.EqualFold(email, s.admin.Email) {
		log.Warn().Str("email", email).Msg("Login attempt for unknown account")
		return nil, utils.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return nil, utils.ErrInvalidCredentials
	}

	sid := utils.NewSessionID()
	token, exp, err := s.tokens.Generate(s.admin.Email, sid)
	if err != nil {
		return nil, err
	}
	log.Info().Str("email", s.admin.Email).Str("session_id", sid).Msg("Login successful")
	return &Session{Token: token, ExpiresAt: exp, Email: s.admin.Email, SessionID: sid}, nil
}

// Logout revokes the session until its token expires.
func (s *AuthService) Logout(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, sessionID, expiresAt.Sub(s.now())); err != nil {
		return err
	}
	log.Info().Str("session_id", sessionID).Msg("Session revoked")
	return nil
}

// Revoked reports whether the session was logged out.
func (s *AuthService) Revoked(ctx context.Context, sessionID string) (bool, error) {
	if s.sessions == nil {
		return false, nil
	}
	return s.sessions.SessionRevoked(ctx, sessionID)
}
