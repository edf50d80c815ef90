// Package notify shows transient toast notifications.
package notify

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"myeasyevent_front/internal/dom"
)

// Kind is the flavour of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTimeout matches the 3 second toast timer of the site.
const DefaultTimeout = 3 * time.Second

// Notifier raises user-visible notifications.
type Notifier interface {
	Success(ctx context.Context, title, text string)
	Error(ctx context.Context, title, text string)
}

// Toaster renders toasts into a #toasts container at the end of the body
// and removes each one after Timeout.
type Toaster struct {
	doc     *dom.Document
	logger  *log.Logger
	Timeout time.Duration
}

// NewToaster returns a toaster writing into doc.
func NewToaster(doc *dom.Document, logger *log.Logger) *Toaster {
	if logger == nil {
		logger = log.Default()
	}
	return &Toaster{doc: doc, logger: logger.WithPrefix("toast"), Timeout: DefaultTimeout}
}

// Success shows a success toast.
func (t *Toaster) Success(ctx context.Context, title, text string) {
	t.show(KindSuccess, title, text)
}

// Error shows an error toast.
func (t *Toaster) Error(ctx context.Context, title, text string) {
	t.show(KindError, title, text)
}

func (t *Toaster) show(kind Kind, title, text string) {
	if kind == KindError {
		t.logger.Warn(title, "text", text)
	} else {
		t.logger.Info(title, "text", text)
	}

	box := t.container()
	if box == nil {
		return
	}
	toast := t.doc.CreateElement("div")
	toast.SetAttr("id", "toast-"+uuid.NewString())
	toast.AddClass("toast", "toast-"+string(kind))
	toast.SetAttr("role", "status")

	head := t.doc.CreateElement("strong")
	head.SetText(title)
	toast.AppendChild(head)
	if text != "" {
		body := t.doc.CreateElement("p")
		body.SetText(text)
		toast.AppendChild(body)
	}
	box.AppendChild(toast)

	if t.Timeout > 0 {
		time.AfterFunc(t.Timeout, toast.Remove)
	}
}

func (t *Toaster) container() *dom.Element {
	if box := t.doc.GetElementByID("toasts"); box != nil {
		return box
	}
	body := t.doc.Body()
	if body == nil {
		return nil
	}
	box := t.doc.CreateElement("div")
	box.SetAttr("id", "toasts")
	box.AddClass("toast-container")
	body.AppendChild(box)
	return box
}
