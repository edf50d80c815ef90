// Package auth reads the client-side credentials (session cookie, device
// token), verifies them with the backend and guards protected views.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/browser"
)

// Client-side storage keys.
const (
	SessionCookie  = "MYEASYEVENT_Session"
	DeviceTokenKey = "MYEASYEVENT_Token"
	AvatarKey      = "avatar"
	RoleKey        = "userRole"
)

// SessionMaxAge is how long a session cookie set after login lives.
const SessionMaxAge = 7 * 24 * time.Hour

var (
	// ErrNoCredential means neither a session cookie nor a device token is
	// stored.
	ErrNoCredential = errors.New("auth: no credential")
	// ErrSessionRejected means the backend refused the session.
	ErrSessionRejected = errors.New("auth: session rejected")
)

// User is the profile returned by a successful session check.
type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
}

// Navigator moves the app to another route.
type Navigator interface {
	Navigate(ctx context.Context, target string) bool
}

// Session manages the credentials stored in the window.
type Session struct {
	win    *browser.Window
	api    *api.Client
	logger *log.Logger

	mu   sync.RWMutex
	user *User
}

// NewSession returns a session bound to win and the backend client.
func NewSession(win *browser.Window, client *api.Client, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{win: win, api: client, logger: logger.WithPrefix("auth")}
}

// Token returns the session cookie value.
func (s *Session) Token() string { return s.win.Cookie(SessionCookie) }

// DeviceToken returns the stored device token.
func (s *Session) DeviceToken(ctx context.Context) string {
	return browser.Lookup(ctx, s.win.Local, DeviceTokenKey)
}

// HasCredential reports whether a session cookie or a device token is
// stored.
func (s *Session) HasCredential(ctx context.Context) bool {
	return s.Token() != "" || s.DeviceToken(ctx) != ""
}

// Check verifies the stored session with the backend.
func (s *Session) Check(ctx context.Context) (*User, error) {
	if !s.HasCredential(ctx) {
		return nil, ErrNoCredential
	}
	resp, err := s.api.Call(ctx, api.Connexions, api.Action{
		"action":  "checkSession",
		"session": s.Token(),
	})
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !resp.OK() {
		s.setUser(nil)
		return nil, fmt.Errorf("%w: %s", ErrSessionRejected, resp.Message)
	}

	u := &User{}
	if err := resp.Decode(u); err != nil && !errors.Is(err, api.ErrNoData) {
		s.logger.Debug("session check returned no profile", "err", err)
	}
	s.setUser(u)
	return u, nil
}

// Refresh re-checks the stored credentials at startup. A valid session
// caches the avatar and role in sessionStorage; a rejected one is cleared.
func (s *Session) Refresh(ctx context.Context) (*User, error) {
	u, err := s.Check(ctx)
	switch {
	case err == nil:
		if u.Avatar != "" {
			_ = s.win.Session.Set(ctx, AvatarKey, u.Avatar)
		}
		if u.Role != "" {
			_ = s.win.Session.Set(ctx, RoleKey, u.Role)
		}
		s.logger.Info("session restored", "email", u.Email)
		return u, nil
	case errors.Is(err, ErrSessionRejected):
		s.logger.Info("stored session rejected, clearing credentials")
		s.Clear(ctx)
	}
	return nil, err
}

// Store saves the session returned by a successful login.
func (s *Session) Store(session string) {
	s.win.SetCookie(SessionCookie, session, SessionMaxAge)
}

// StoreDeviceToken keeps the device token awaiting confirmation.
func (s *Session) StoreDeviceToken(ctx context.Context, token string) error {
	return s.win.Local.Set(ctx, DeviceTokenKey, token)
}

// Clear drops every credential and the session storage.
func (s *Session) Clear(ctx context.Context) {
	_ = s.win.Local.Remove(ctx, DeviceTokenKey)
	s.win.SetCookie(SessionCookie, "", -1)
	_ = s.win.Session.Clear(ctx)
	s.setUser(nil)
}

// Logout clears the credentials and sends the user to the login view.
func (s *Session) Logout(ctx context.Context, nav Navigator) {
	s.Clear(ctx)
	nav.Navigate(ctx, "/login")
}

// User returns the profile of the last successful check, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether the last check succeeded.
func (s *Session) LoggedIn() bool { return s.User() != nil }

func (s *Session) setUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
