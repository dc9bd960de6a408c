package services

import (
	"context"

	"mostrador/internal/domain"
	"mostrador/internal/logging"
	"mostrador/internal/ports"
)

// AuthService owns login and logout for the station account.
type AuthService struct {
	api      ports.AuthAPI
	sessions *SessionManager
}

// NewAuthService creates a new AuthService
func NewAuthService(api ports.AuthAPI, sessions *SessionManager) *AuthService {
	return &AuthService{api: api, sessions: sessions}
}

// Login authenticates against the remote API. On success the token
// and user are stored and every later call carries the bearer token.
// On failure the session is left untouched and the error is returned
// for display; there is no automatic retry.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		logging.Logger.Warn("Login failed", "username", username, "error", err)
		return nil, err
	}

	user := result.User
	err = s.sessions.Update(ctx, func(session *domain.Session) {
		session.Token = result.Token
		session.User = &user
		session.AutoClosed = false
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.Info("Logged in", "username", user.Username, "role", user.Role, "branch", user.Branch)
	return &user, nil
}

// Logout wipes the whole session: token, user, employee, and shift
// snapshot. Ending the login ends the shift-tracking context too,
// because the next person at this station may be anyone.
func (s *AuthService) Logout(ctx context.Context) error {
	logging.Logger.Info("Logging out, clearing station session")
	return s.sessions.Clear(ctx)
}
