// Package view renders routes into the main content area of the document
// and drives the lifecycle of page modules.
package view

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/fragment"
	"myeasyevent_front/internal/page"
	"myeasyevent_front/internal/router"
)

// DefaultExitDelay lets the fade-out transition of the old view finish.
const DefaultExitDelay = 200 * time.Millisecond

// DefaultView is rendered when RenderMain is given an empty view name.
const DefaultView = "accueil"

// State is the render state of the main area.
type State int32

const (
	Idle State = iota
	Loading
	Mounted
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Mounted:
		return "mounted"
	case Error:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Guard decides whether a view may be rendered. A refusing guard is
// responsible for redirecting.
type Guard interface {
	Allow(ctx context.Context, view string) bool
}

// Loader resolves a view name to its page module.
type Loader interface {
	Load(view string) (page.Module, error)
}

// Scroller moves the viewport.
type Scroller interface {
	ScrollTo(x, y int)
}

// Options tune a Mounter.
type Options struct {
	// ExitDelay is waited after marking the old main as fading out.
	// Zero disables the wait.
	ExitDelay time.Duration
	Guard     Guard
	Scroller  Scroller
	Logger    *log.Logger
}

// Mounter owns the <main> region and the active page module. Every render
// takes a new generation number; a render that has been overtaken by a
// newer one stops at its next suspension point without touching the DOM.
type Mounter struct {
	doc     *dom.Document
	src     fragment.Source
	modules Loader
	routes  router.Table
	base    router.Base
	opts    Options
	logger  *log.Logger

	gen atomic.Uint64

	mu        sync.Mutex
	active    page.Module
	activeGen uint64
	state     State
	view      string
}

// New returns a mounter rendering into doc.
func New(doc *dom.Document, src fragment.Source, modules Loader, routes router.Table, base router.Base, opts Options) *Mounter {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Mounter{
		doc:     doc,
		src:     src,
		modules: modules,
		routes:  routes,
		base:    base,
		opts:    opts,
		logger:  logger.WithPrefix("view"),
	}
}

// State returns the current render state.
func (m *Mounter) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// View returns the name of the view last rendered or being rendered.
func (m *Mounter) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

// Active returns the active page module, or nil.
func (m *Mounter) Active() page.Module {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// RenderRoute renders the route of a browser path. The query string does
// not take part in routing; it stays in the location for the page module.
func (m *Mounter) RenderRoute(ctx context.Context, browserPath string) error {
	path, _ := router.SplitQuery(browserPath)
	app := m.base.AppPath(path)
	route := m.routes.Resolve(app)
	m.logger.Debug("render route", "path", browserPath, "view", route.View)

	if old := m.doc.QuerySelector("main"); old != nil {
		old.AddClass("fade-out")
		if m.opts.ExitDelay > 0 {
			t := time.NewTimer(m.opts.ExitDelay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
		}
	}

	if m.opts.Scroller != nil {
		m.opts.Scroller.ScrollTo(0, 0)
	}
	return m.RenderMain(ctx, route.View, route.Title)
}

// RenderMain mounts view into the main area and starts its page module.
// Failures are rendered into the document, never returned; only context
// cancellation is reported.
func (m *Mounter) RenderMain(ctx context.Context, view, title string) error {
	view = strings.TrimSpace(view)
	if view == "" {
		view = DefaultView
	}

	if m.opts.Guard != nil && !m.opts.Guard.Allow(ctx, view) {
		return nil
	}

	gen := m.gen.Add(1)
	m.setState(gen, Loading, view)
	m.showLoading()

	m.unmountActive(ctx)
	if m.stale(gen) {
		return nil
	}

	markup, err := m.src.Fetch(ctx, view)
	if m.stale(gen) {
		return nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.logger.Error("load view", "view", view, "err", err)
		m.replaceMain(fmt.Sprintf("Impossible de charger %q.", view))
		m.setState(gen, Error, view)
		return nil
	}

	frag, matched, err := fragment.Find(markup, view, "404")
	if err != nil {
		m.logger.Error("template missing", "view", view, "err", err)
		m.replaceMain(fmt.Sprintf("Erreur : le template %q est introuvable.", view))
		m.setState(gen, Error, view)
		return nil
	}
	if matched != view {
		m.logger.Warn("template fallback", "view", view, "template", matched)
	}

	m.mount(frag)
	if title != "" {
		m.doc.SetTitle(title)
	}
	m.setState(gen, Mounted, view)

	m.startModule(ctx, gen, view)
	return nil
}

// Unmount releases the active page module. It is used when the app shuts
// down.
func (m *Mounter) Unmount(ctx context.Context) {
	m.gen.Add(1)
	m.unmountActive(ctx)
}

func (m *Mounter) stale(gen uint64) bool {
	return m.gen.Load() != gen
}

func (m *Mounter) setState(gen uint64, s State, view string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen.Load() != gen {
		return
	}
	m.state, m.view = s, view
}

func (m *Mounter) unmountActive(ctx context.Context) {
	m.mu.Lock()
	prev := m.active
	m.active, m.activeGen = nil, 0
	m.mu.Unlock()

	m.release(ctx, prev)
}

func (m *Mounter) release(ctx context.Context, mod page.Module) {
	u, ok := mod.(page.Unmounter)
	if !ok {
		return
	}
	if err := safely(ctx, u.Unmount); err != nil {
		m.logger.Debug("unmount failed", "err", err)
	}
}

func (m *Mounter) startModule(ctx context.Context, gen uint64, view string) {
	mod, err := m.modules.Load(view)
	if err != nil {
		m.logger.Debug("no page module", "view", view, "err", err)
		m.clearActive(gen)
		return
	}

	m.mu.Lock()
	if m.gen.Load() != gen {
		m.mu.Unlock()
		return
	}
	m.active, m.activeGen = mod, gen
	m.mu.Unlock()

	initer, ok := mod.(page.Initializer)
	if !ok {
		return
	}
	err = safely(ctx, initer.Init)

	// A newer render may have released mod while Init ran; whatever Init
	// started after that must be stopped here.
	if m.stale(gen) {
		m.logger.Debug("page superseded during init", "view", view)
		m.release(ctx, mod)
		return
	}
	if err != nil {
		m.logger.Warn("page init failed", "view", view, "err", err)
		m.clearActive(gen)
	}
}

func (m *Mounter) clearActive(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeGen == gen {
		m.active, m.activeGen = nil, 0
	}
}

// showLoading puts the loading placeholder in place of the main content.
func (m *Mounter) showLoading() {
	const placeholder = `<div class="loading" style="text-align:center; padding:2rem;">Chargement...</div>`
	if old := m.doc.QuerySelector("main"); old != nil {
		_ = old.SetInnerHTML(placeholder)
		return
	}
	loading := m.doc.CreateElement("main")
	loading.SetAttr("id", "loading")
	_ = loading.SetInnerHTML(placeholder)
	m.insertMain(loading)
}

func (m *Mounter) mount(frag *dom.Fragment) {
	m.removeMain()
	if header := m.doc.QuerySelector("header"); header != nil && header.Parent() != nil {
		header.After(frag)
		return
	}
	if body := m.doc.Body(); body != nil {
		body.Append(frag)
	}
}

func (m *Mounter) replaceMain(message string) {
	m.removeMain()
	errMain := m.doc.CreateElement("main")
	errMain.AddClass("view-error")
	p := m.doc.CreateElement("p")
	p.SetAttr("style", "text-align:center; padding:2rem; color:red;")
	p.SetText(message)
	errMain.AppendChild(p)
	m.insertMain(errMain)
}

func (m *Mounter) insertMain(el *dom.Element) {
	if header := m.doc.QuerySelector("header"); header != nil && header.Parent() != nil {
		header.AfterElement(el)
		return
	}
	if body := m.doc.Body(); body != nil {
		body.AppendChild(el)
	}
}

func (m *Mounter) removeMain() {
	for _, el := range m.doc.QuerySelectorAll("main") {
		el.Remove()
	}
}

// safely runs a page module hook, turning panics into errors.
func safely(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}
