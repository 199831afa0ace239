// Package auth holds the authenticated user state and its persistence.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/verte-zerg/tecla/internal/model"
)

// Storage keys, shared with older clients of the same account data.
const (
	KeyAccessToken = "access_token"
	KeyUser        = "user"
	KeySessionData = "session_data"
)

// Storage persists string values across runs.
type Storage interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// Route names a view the host should navigate to.
type Route string

const (
	RouteNone  Route = ""
	RouteLogin Route = "login"
	RouteHome  Route = "home"
)

// Signal tells the host shell where to navigate. The state never
// navigates on its own.
type Signal struct {
	Redirect Route
	Reason   string
}

// ErrNotAuthenticated is returned by operations that need a logged-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// State is the owned authentication state of one client process.
// It is safe for concurrent use because the API client reads the token
// from request goroutines.
type State struct {
	storage Storage

	mu          sync.RWMutex
	user        *model.User
	accessToken string
}

// New returns an empty state backed by storage.
func New(storage Storage) *State {
	return &State{storage: storage}
}

// Hydrate restores the token and user from storage.
func (s *State) Hydrate(ctx context.Context) error {
	token, ok, err := s.storage.GetValue(ctx, KeyAccessToken)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}
	var user *model.User
	raw, ok, err := s.storage.GetValue(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("failed to read user: %w", err)
	}
	if ok && raw != "" {
		var decoded model.User
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			slog.Warn("discarding unreadable stored user", "error", err)
		} else {
			user = &decoded
		}
	}
	s.mu.Lock()
	s.accessToken = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login persists the token and user and marks the state authenticated.
func (s *State) Login(ctx context.Context, token string, user model.User) error {
	if token == "" {
		return fmt.Errorf("login response has no token")
	}
	if err := s.storage.SetValue(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := s.persistUser(ctx, user); err != nil {
		return err
	}
	s.mu.Lock()
	s.accessToken = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// SetToken replaces the access token and keeps the stored user, if any.
func (s *State) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("token is empty")
	}
	if err := s.storage.SetValue(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
	return nil
}

// SetUserName renames the current user.
func (s *State) SetUserName(ctx context.Context, name string) error {
	s.mu.RLock()
	if s.user == nil {
		s.mu.RUnlock()
		return ErrNotAuthenticated
	}
	updated := *s.user
	s.mu.RUnlock()
	updated.Username = name
	if err := s.persistUser(ctx, updated); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = &updated
	s.mu.Unlock()
	return nil
}

// Logout clears the token and user and returns a redirect to login.
// Storage errors are logged; the in-memory state is always cleared.
func (s *State) Logout(ctx context.Context) Signal {
	slog.Info("logging out")
	s.mu.Lock()
	s.accessToken = ""
	s.user = nil
	s.mu.Unlock()
	for _, key := range []string{KeyAccessToken, KeyUser} {
		if err := s.storage.DeleteValue(ctx, key); err != nil {
			slog.Error("failed to clear stored credential", "key", key, "error", err)
		}
	}
	return Signal{Redirect: RouteLogin, Reason: "logged out"}
}

// SetSessionData remembers the identifier of the last writing session.
func (s *State) SetSessionData(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return s.storage.DeleteValue(ctx, KeySessionData)
	}
	return s.storage.SetValue(ctx, KeySessionData, sessionID)
}

// SessionData returns the identifier stored by SetSessionData.
func (s *State) SessionData(ctx context.Context) (string, error) {
	value, _, err := s.storage.GetValue(ctx, KeySessionData)
	return value, err
}

// Token returns the current access token or an empty string.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// User returns the current user.
func (s *State) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether an access token is present.
func (s *State) IsAuthenticated() bool {
	return s.Token() != ""
}

// RequireAuth returns a redirect to login when no user is logged in.
func (s *State) RequireAuth() Signal {
	if s.IsAuthenticated() {
		return Signal{}
	}
	return Signal{Redirect: RouteLogin, Reason: "login required"}
}

// RequireGuest returns a redirect home when a user is already logged in.
func (s *State) RequireGuest() Signal {
	if !s.IsAuthenticated() {
		return Signal{}
	}
	return Signal{Redirect: RouteHome, Reason: "already logged in"}
}

func (s *State) persistUser(ctx context.Context, user model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.SetValue(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}
