// Package browser provides the headless host the SPA runs in: a document,
// a session history, cookie jar and web storages bound to one origin.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"myeasyevent_front/internal/dom"
)

// Window ties together everything a page sees of its browser.
type Window struct {
	Document *dom.Document
	History  *History
	Local    Storage
	Session  Storage
	Client   *http.Client

	origin *url.URL
	jar    http.CookieJar

	mu      sync.Mutex
	scrollX int
	scrollY int
}

// Option configures a Window.
type Option func(*Window)

// WithLocalStorage replaces the in-memory localStorage.
func WithLocalStorage(s Storage) Option {
	return func(w *Window) { w.Local = s }
}

// WithHTTPClient uses client for every request. The window's cookie jar is
// attached to a copy of it.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Window) {
		c := *client
		w.Client = &c
	}
}

// WithDocument starts from an existing document instead of an empty one.
func WithDocument(d *dom.Document) Option {
	return func(w *Window) { w.Document = d }
}

// NewWindow opens rawURL: its scheme and host become the origin and its
// path, query and fragment the first history entry.
func NewWindow(rawURL string, opts ...Option) (*Window, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse window url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("window url %q is not absolute", rawURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	w := &Window{
		Local:   NewMemoryStorage(),
		Session: NewMemoryStorage(),
		Client:  &http.Client{},
		origin:  &url.URL{Scheme: u.Scheme, Host: u.Host},
		jar:     jar,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.Document == nil {
		w.Document = dom.New()
	}
	w.Client.Jar = jar

	initial := u.EscapedPath()
	if initial == "" {
		initial = "/"
	}
	if u.RawQuery != "" {
		initial += "?" + u.RawQuery
	}
	w.History = NewHistory(initial)
	return w, nil
}

// Origin returns scheme://host of the window.
func (w *Window) Origin() *url.URL {
	o := *w.origin
	return &o
}

// Location returns the absolute URL of the current history entry.
func (w *Window) Location() *url.URL {
	ref, err := url.Parse(w.History.Current())
	if err != nil {
		return w.Origin()
	}
	return w.origin.ResolveReference(ref)
}

// Query returns the parsed query string of the current location.
func (w *Window) Query() url.Values {
	return w.Location().Query()
}

// Resolve resolves ref against the current location.
func (w *Window) Resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return w.Location().ResolveReference(r), nil
}

// ScrollTo records the viewport position.
func (w *Window) ScrollTo(x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scrollX, w.scrollY = x, y
}

// Scroll returns the recorded viewport position.
func (w *Window) Scroll() (x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrollX, w.scrollY
}

// Cookie returns the value of the origin cookie name, "" when unset.
func (w *Window) Cookie(name string) string {
	for _, c := range w.jar.Cookies(w.origin) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// SetCookie stores an origin cookie valid for maxAge. A non-positive
// maxAge deletes it.
func (w *Window) SetCookie(name, value string, maxAge time.Duration) {
	c := &http.Cookie{Name: name, Value: value, Path: "/"}
	if maxAge > 0 {
		c.Expires = time.Now().Add(maxAge)
	} else {
		c.MaxAge = -1
	}
	w.jar.SetCookies(w.origin, []*http.Cookie{c})
}

// Get fetches ref, resolved against the current location, bypassing any
// HTTP cache.
func (w *Window) Get(ctx context.Context, ref string) (*http.Response, error) {
	u, err := w.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, err)
	}
	return w.Do(ctx, http.MethodGet, u.String(), nil)
}

// Do sends a request with the window's client and cookies.
func (w *Window) Do(ctx context.Context, method, target string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	return w.Client.Do(req)
}
