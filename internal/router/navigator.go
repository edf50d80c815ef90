package router

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/browser"
	"myeasyevent_front/internal/dom"
)

// ErrAlreadyListening is returned when Listen is called twice.
var ErrAlreadyListening = errors.New("navigator is already listening")

// RouteChangeFunc receives the browser path (prefix and query included)
// after the location changed.
type RouteChangeFunc func(ctx context.Context, browserPath string)

// History is the part of the session history the navigator drives.
type History interface {
	Current() string
	PushState(path string)
	OnPopState(fn browser.PopStateFunc) func()
}

// Navigator is the only component that pushes history entries. It turns
// programmatic navigation, clicks on a[data-spa] links and back/forward
// moves into route-change callbacks.
type Navigator struct {
	base    Base
	origin  *url.URL
	history History
	logger  *log.Logger

	mu       sync.Mutex
	onChange RouteChangeFunc
	detach   []func()
}

// NewNavigator creates a navigator for the given origin and history.
func NewNavigator(base Base, origin *url.URL, history History, logger *log.Logger) *Navigator {
	if logger == nil {
		logger = log.Default()
	}
	return &Navigator{
		base:    base,
		origin:  origin,
		history: history,
		logger:  logger.WithPrefix("router"),
	}
}

// Base returns the mount prefix.
func (n *Navigator) Base() Base { return n.base }

// Current returns the current browser path.
func (n *Navigator) Current() string { return n.history.Current() }

// Href returns the browser path for an application target, query kept.
func (n *Navigator) Href(target string) string {
	full := n.base.Add(n.base.AppPath(target))
	if _, query := SplitQuery(target); query != "" {
		full += "?" + query
	}
	return full
}

// Navigate moves to target, a bare path, a prefixed path or an absolute
// URL. It does nothing and returns false when target is already the
// current location; otherwise it pushes a history entry and notifies the
// route-change callback.
func (n *Navigator) Navigate(ctx context.Context, target string) bool {
	full := n.Href(target)
	if full == n.history.Current() {
		n.logger.Debug("navigate skipped", "path", full)
		return false
	}
	n.history.PushState(full)
	n.logger.Debug("navigate", "path", full)

	n.mu.Lock()
	onChange := n.onChange
	n.mu.Unlock()
	if onChange != nil {
		onChange(ctx, full)
	}
	return true
}

// Listen intercepts link activations on doc and history moves, and routes
// both to onChange. It does not fire for the current location: the caller
// renders the initial route itself.
func (n *Navigator) Listen(doc *dom.Document, onChange RouteChangeFunc) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.onChange != nil {
		return ErrAlreadyListening
	}
	n.onChange = onChange
	n.detach = append(n.detach,
		doc.AddEventListener("click", n.handleClick),
		n.history.OnPopState(func(ctx context.Context, path string) {
			n.logger.Debug("popstate", "path", path)
			onChange(ctx, path)
		}),
	)
	return nil
}

// Close detaches the listeners installed by Listen.
func (n *Navigator) Close() {
	n.mu.Lock()
	detach := n.detach
	n.detach = nil
	n.onChange = nil
	n.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

func (n *Navigator) handleClick(ev *dom.Event) {
	if ev.DefaultPrevented() || ev.Target == nil {
		return
	}
	a := ev.Target.Closest("a[data-spa]")
	if a == nil {
		return
	}
	href := a.Attr("href")
	if href == "" {
		return
	}
	ref, err := url.Parse(href)
	if err != nil {
		n.logger.Warn("unparsable link", "href", href, "err", err)
		return
	}
	u := n.origin.ResolveReference(ref)
	if u.Scheme != n.origin.Scheme || u.Host != n.origin.Host {
		return
	}

	ev.PreventDefault()
	target := n.base.Strip(u.EscapedPath())
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	n.Navigate(ev.Context(), target)
}
