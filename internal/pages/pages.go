// Package pages holds the page modules of the site, one per view that needs
// behavior beyond its static template.
package pages

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/page"
)

// Register adds every page module to reg.
func Register(reg *page.Registry) {
	reg.Register("accueil", NewAccueil)
	reg.Register("evenements", NewEvenements)
	reg.Register("event-detail", NewEventDetail)
	reg.Register("login", NewLogin)
	reg.Register("register", NewRegister)
	reg.Register("contact", NewContact)
	reg.Register("dashboard", NewDashboard)
	reg.Register("create-event", NewCreateEvent)
}

// Validation hints shared by the account forms.
const (
	passwordHint     = "8+ caractères, 1 minuscule, 1 majuscule, 1 chiffre, 1 spécial"
	passwordMismatch = "Les mots de passe ne correspondent pas"
)

// sanitizer cleans backend-provided markup before it is injected. Event
// templates carry inline styles, so style and class attributes survive.
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowAttrs("style").Globally()
	return p
}()

// sanitize returns markup stripped of scripts and event handlers.
func sanitize(markup string) string {
	return sanitizer.Sanitize(markup)
}

// call sends an action and turns a non-success envelope into an error
// carrying the backend message.
func call(ctx context.Context, client *api.Client, endpoint string, action api.Action) (*api.Response, error) {
	resp, err := client.Call(ctx, endpoint, action)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, &backendError{msg: resp.Message}
	}
	return resp, nil
}

type backendError struct{ msg string }

func (e *backendError) Error() string {
	if e.msg == "" {
		return "backend refused the action"
	}
	return e.msg
}

// message returns the backend message of err, or fallback.
func message(err error, fallback string) string {
	var be *backendError
	if errors.As(err, &be) && be.msg != "" {
		return be.msg
	}
	return fallback
}

// refused reports whether err is a non-success envelope rather than a
// transport failure.
func refused(err error) bool {
	var be *backendError
	return errors.As(err, &be)
}

// forbidden reports a 403 answer.
func forbidden(err error) bool {
	var se *api.StatusError
	return errors.As(err, &se) && se.Forbidden()
}

// value returns the trimmed value of the element with id, "" if absent.
func value(doc *dom.Document, id string) string {
	if el := doc.GetElementByID(id); el != nil {
		return strings.TrimSpace(el.Value())
	}
	return ""
}

// rawValue is value without trimming, for passwords.
func rawValue(doc *dom.Document, id string) string {
	if el := doc.GetElementByID(id); el != nil {
		return el.Value()
	}
	return ""
}

// markValid flips the is-valid / is-invalid classes of an input.
func markValid(el *dom.Element, ok bool) {
	if ok {
		el.RemoveClass("is-invalid")
		el.AddClass("is-valid")
		return
	}
	el.RemoveClass("is-valid")
	el.AddClass("is-invalid")
}

// listeners collects detach functions of document-level listeners.
type listeners []func()

func (l *listeners) add(fn func()) { *l = append(*l, fn) }

func (l *listeners) close() {
	for _, fn := range *l {
		fn()
	}
	*l = nil
}
