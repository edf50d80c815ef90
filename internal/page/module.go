// Package page defines the contract between the view mounter and the
// page modules: what a module may implement, what it receives, and the
// registry that resolves a view name to a module.
package page

import (
	"context"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/auth"
	"myeasyevent_front/internal/browser"
	"myeasyevent_front/internal/fragment"
	"myeasyevent_front/internal/notify"
)

// Module is a loaded page module. It may implement Initializer, Unmounter,
// both or neither.
type Module interface{}

// Initializer is implemented by modules that wire the freshly mounted view.
type Initializer interface {
	Init(ctx context.Context) error
}

// Unmounter is implemented by modules that hold resources (goroutines,
// timers, open streams) to release when the view is replaced.
type Unmounter interface {
	Unmount(ctx context.Context) error
}

// Navigator moves the app to another route.
type Navigator interface {
	Navigate(ctx context.Context, target string) bool
}

// Env is what every page module gets to work with.
type Env struct {
	Window     *browser.Window
	Nav        Navigator
	Toast      notify.Notifier
	API        *api.Client
	Session    *auth.Session
	Components fragment.Source
	Logger     *log.Logger
}

// Log returns a logger prefixed with the page name.
func (e *Env) Log(name string) *log.Logger {
	if e.Logger == nil {
		return log.Default().WithPrefix("page/" + name)
	}
	return e.Logger.WithPrefix("page/" + name)
}
