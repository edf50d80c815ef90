// Package shell renders the persistent parts of the page, header and
// footer, and wires the header widgets (burger menu, user modal).
package shell

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/auth"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/fragment"
)

// Account is the view of the session the header needs.
type Account interface {
	LoggedIn() bool
	Logout(ctx context.Context, nav auth.Navigator)
}

// Renderer renders header and footer from components/header.html and
// components/footer.html.
type Renderer struct {
	doc     *dom.Document
	src     fragment.Source
	nav     auth.Navigator
	account Account
	logger  *log.Logger

	// Now is used for the footer year.
	Now func() time.Time

	mu     sync.Mutex
	detach []func()
}

// New returns a shell renderer.
func New(doc *dom.Document, src fragment.Source, nav auth.Navigator, account Account, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		doc:     doc,
		src:     src,
		nav:     nav,
		account: account,
		logger:  logger.WithPrefix("shell"),
		Now:     time.Now,
	}
}

// RenderHeader replaces the content of <header> (creating it at the top of
// the body if needed) and wires its widgets. A failed fetch leaves an empty
// header.
func (r *Renderer) RenderHeader(ctx context.Context) error {
	r.Close()

	header := r.doc.QuerySelector("header")
	if header == nil {
		header = r.doc.CreateElement("header")
	} else {
		_ = header.SetInnerHTML("")
	}

	if frag, err := fragment.Load(ctx, r.src, "header"); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Warn("header unavailable", "err", err)
	} else {
		header.Append(frag)
	}

	if !header.Attached() {
		if body := r.doc.Body(); body != nil {
			body.Prepend(header)
		}
	}

	r.initBurgerMenu()
	r.initUserModal()
	return nil
}

// RenderFooter replaces any <footer> with a fresh one appended to the body
// and fills in the current year.
func (r *Renderer) RenderFooter(ctx context.Context) error {
	if old := r.doc.QuerySelector("footer"); old != nil {
		old.Remove()
	}

	footer := r.doc.CreateElement("footer")
	if frag, err := fragment.Load(ctx, r.src, "footer"); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Warn("footer unavailable", "err", err)
	} else {
		footer.Append(frag)
	}
	if body := r.doc.Body(); body != nil {
		body.AppendChild(footer)
	}

	if year := r.doc.GetElementByID("currentYear"); year != nil {
		year.SetText(strconv.Itoa(r.Now().Year()))
	}
	return nil
}

// Close removes the document-level listeners installed by the header.
func (r *Renderer) Close() {
	r.mu.Lock()
	detach := r.detach
	r.detach = nil
	r.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

// Go closes the mobile menu and navigates.
func (r *Renderer) Go(ctx context.Context, to string) {
	if nav := r.doc.GetElementByID("mainNav"); nav != nil {
		nav.AddClass("hidden")
	}
	r.nav.Navigate(ctx, to)
}

func (r *Renderer) track(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detach = append(r.detach, fn)
}
