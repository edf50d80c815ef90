// Package app assembles the headless client: one window, its router, the
// view mounter with its page modules, the shell and the session.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/auth"
	"myeasyevent_front/internal/browser"
	"myeasyevent_front/internal/config"
	"myeasyevent_front/internal/fragment"
	"myeasyevent_front/internal/notify"
	"myeasyevent_front/internal/page"
	"myeasyevent_front/internal/pages"
	"myeasyevent_front/internal/router"
	"myeasyevent_front/internal/shell"
	"myeasyevent_front/internal/view"
)

// Options configure an App.
type Options struct {
	// Location is the absolute URL the window opens on.
	Location string
	// Backend is the root of the PHP API.
	Backend string
	// MountPrefix defaults to router.DeployPrefix.
	MountPrefix string
	// LocalHosts defaults to router.DefaultLocalHosts.
	LocalHosts []string
	// Protected defaults to auth.DefaultProtected.
	Protected []string

	ExitDelay  time.Duration
	Routes     router.Table
	HTTPClient *http.Client
	Local      browser.Storage
	Logger     *log.Logger
}

// FromConfig builds options from the environment settings, opening the
// window on path.
func FromConfig(cfg *config.Config, path string) Options {
	return Options{
		Location:    cfg.AssetOrigin + path,
		Backend:     cfg.BackendURL,
		MountPrefix: cfg.MountPrefix,
		LocalHosts:  cfg.LocalHosts,
		ExitDelay:   cfg.ExitDelay,
	}
}

// App is a running client.
type App struct {
	Window   *browser.Window
	Nav      *router.Navigator
	Mounter  *view.Mounter
	Shell    *shell.Renderer
	Session  *auth.Session
	Toaster  *notify.Toaster
	Registry *page.Registry
	API      *api.Client

	logger *log.Logger
}

// New wires an App. Nothing is fetched until Boot.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Backend == "" {
		return nil, errors.New("app: backend URL is required")
	}

	var winOpts []browser.Option
	if opts.HTTPClient != nil {
		winOpts = append(winOpts, browser.WithHTTPClient(opts.HTTPClient))
	}
	if opts.Local != nil {
		winOpts = append(winOpts, browser.WithLocalStorage(opts.Local))
	}
	win, err := browser.NewWindow(opts.Location, winOpts...)
	if err != nil {
		return nil, fmt.Errorf("open window: %w", err)
	}

	prefix := opts.MountPrefix
	if prefix == "" {
		prefix = router.DeployPrefix
	}
	hosts := opts.LocalHosts
	if hosts == nil {
		hosts = router.DefaultLocalHosts
	}
	base := router.DetectBase(win.Location(), hosts, prefix)

	routes := opts.Routes
	if routes == nil {
		routes = router.DefaultTable()
	}
	protected := opts.Protected
	if protected == nil {
		protected = auth.DefaultProtected
	}

	client := api.NewClient(opts.Backend, win.Client)
	session := auth.NewSession(win, client, logger)
	toaster := notify.NewToaster(win.Document, logger)
	nav := router.NewNavigator(base, win.Origin(), win.History, logger)
	components := fragment.NewHTTPSource(win, string(base))

	env := &page.Env{
		Window:     win,
		Nav:        nav,
		Toast:      toaster,
		API:        client,
		Session:    session,
		Components: components,
		Logger:     logger,
	}
	registry := page.NewRegistry(env)
	pages.Register(registry)

	mounter := view.New(win.Document, components, registry, routes, base, view.Options{
		ExitDelay: opts.ExitDelay,
		Guard:     auth.NewGuard(protected, session, toaster, nav, logger),
		Scroller:  win,
		Logger:    logger,
	})

	return &App{
		Window:   win,
		Nav:      nav,
		Mounter:  mounter,
		Shell:    shell.New(win.Document, components, nav, session, logger),
		Session:  session,
		Toaster:  toaster,
		Registry: registry,
		API:      client,
		logger:   logger.WithPrefix("app"),
	}, nil
}

// Boot renders the header, restores the session, renders the footer and
// the current route, and starts listening for navigation.
func (a *App) Boot(ctx context.Context) error {
	if err := a.Shell.RenderHeader(ctx); err != nil {
		return err
	}
	if a.Session.HasCredential(ctx) {
		if _, err := a.Session.Refresh(ctx); err != nil {
			a.logger.Info("session not restored", "err", err)
		} else if err := a.Shell.RenderHeader(ctx); err != nil {
			return err
		}
	}
	if err := a.Shell.RenderFooter(ctx); err != nil {
		return err
	}

	if err := a.Nav.Listen(a.Window.Document, a.onRouteChange); err != nil {
		return err
	}
	return a.Mounter.RenderRoute(ctx, a.Nav.Current())
}

func (a *App) onRouteChange(ctx context.Context, path string) {
	if err := a.Mounter.RenderRoute(ctx, path); err != nil {
		a.logger.Debug("render interrupted", "path", path, "err", err)
	}
}

// Visit navigates to target and waits for the render to finish.
func (a *App) Visit(ctx context.Context, target string) bool {
	return a.Nav.Navigate(ctx, target)
}

// Close unmounts the active page and detaches every listener.
func (a *App) Close(ctx context.Context) {
	a.Nav.Close()
	a.Shell.Close()
	a.Mounter.Unmount(ctx)
	if c, ok := a.Window.Local.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			a.logger.Debug("close storage", "err", err)
		}
	}
}

// Location returns the current URL of the window.
func (a *App) Location() *url.URL { return a.Window.Location() }
