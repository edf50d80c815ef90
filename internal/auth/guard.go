package auth

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/notify"
)

// DefaultProtected lists the views that need a valid session.
var DefaultProtected = []string{"dashboard", "create-event"}

// Checker verifies credentials. *Session implements it.
type Checker interface {
	HasCredential(ctx context.Context) bool
	Check(ctx context.Context) (*User, error)
}

// Guard blocks protected views for visitors without a valid session and
// sends them to the login view.
type Guard struct {
	protected map[string]bool
	checker   Checker
	toast     notify.Notifier
	nav       Navigator
	logger    *log.Logger
}

// NewGuard protects views using checker.
func NewGuard(views []string, checker Checker, toast notify.Notifier, nav Navigator, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.Default()
	}
	g := &Guard{
		protected: make(map[string]bool, len(views)),
		checker:   checker,
		toast:     toast,
		nav:       nav,
		logger:    logger.WithPrefix("guard"),
	}
	for _, v := range views {
		g.protected[v] = true
	}
	return g
}

// Protected reports whether view needs a session.
func (g *Guard) Protected(view string) bool { return g.protected[view] }

// Allow reports whether view may be rendered. A refusal has already
// notified the user and started the redirect to /login.
func (g *Guard) Allow(ctx context.Context, view string) bool {
	if !g.protected[view] {
		return true
	}

	var err error
	if !g.checker.HasCredential(ctx) {
		err = ErrNoCredential
	} else {
		_, err = g.checker.Check(ctx)
	}
	if err == nil {
		return true
	}

	g.logger.Info("access denied", "view", view, "err", err)
	title := "Veuillez vous connecter"
	if errors.Is(err, ErrSessionRejected) {
		title = "Session expirée, veuillez vous reconnecter"
	}
	g.toast.Error(ctx, title, "")
	g.nav.Navigate(ctx, "/login")
	return false
}
