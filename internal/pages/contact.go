package pages

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/page"
	"myeasyevent_front/internal/validate"
)

// Contact form limits.
const (
	MinNameLength    = 2
	MinMessageLength = 50
)

var disabledClasses = []string{"disabled", "opacity-50", "cursor-not-allowed"}

// Contact validates the contact form as it is typed and sends it.
type Contact struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger

	lastName, firstName, email, message *dom.Element
	send, form, counter                 *dom.Element
}

// NewContact is the factory of the contact module.
func NewContact(env *page.Env) (page.Module, error) {
	return &Contact{env: env, doc: env.Window.Document, logger: env.Log("contact")}, nil
}

func (p *Contact) Init(context.Context) error {
	p.lastName = p.doc.GetElementByID("lastName")
	p.firstName = p.doc.GetElementByID("firstName")
	p.email = p.doc.GetElementByID("email")
	p.message = p.doc.GetElementByID("message")
	p.send = p.doc.GetElementByID("sendMail")
	p.form = p.doc.GetElementByID("contactForm")
	p.counter = p.doc.GetElementByID("messageCounter")
	if p.lastName == nil || p.firstName == nil || p.email == nil || p.message == nil || p.send == nil || p.form == nil {
		return fmt.Errorf("contact form incomplete")
	}

	p.form.AddEventListener("submit", func(ev *dom.Event) {
		ev.PreventDefault()
		p.submit(ev.Context())
	})

	p.watchName(p.lastName, "Le nom doit contenir au moins 2 caractères")
	p.watchName(p.firstName, "Le prénom doit contenir au moins 2 caractères")

	p.email.AddEventListener("keyup", func(*dom.Event) {
		markValid(p.email, validate.Mail(trimmed(p.email)))
		p.updateButton()
	})
	p.email.AddEventListener("blur", func(ev *dom.Event) {
		if v := trimmed(p.email); v != "" && !validate.Mail(v) {
			p.env.Toast.Error(ev.Context(), "Adresse email invalide", "")
		}
	})

	p.message.AddEventListener("keyup", func(*dom.Event) {
		n := length(p.message)
		p.updateCounter(n)
		markValid(p.message, n >= MinMessageLength)
		p.updateButton()
	})
	p.message.AddEventListener("blur", func(ev *dom.Event) {
		if n := length(p.message); n > 0 && n < MinMessageLength {
			p.env.Toast.Error(ev.Context(), "Message trop court", counterText(n))
		}
	})

	p.disableSend(true)
	return nil
}

func (p *Contact) watchName(input *dom.Element, tooShort string) {
	input.AddEventListener("keyup", func(*dom.Event) {
		markValid(input, length(input) >= MinNameLength)
		p.updateButton()
	})
	input.AddEventListener("blur", func(ev *dom.Event) {
		if n := length(input); n > 0 && n < MinNameLength {
			p.env.Toast.Error(ev.Context(), tooShort, "")
		}
	})
}

// valid reports whether every field passes its rule.
func (p *Contact) valid() bool {
	return length(p.lastName) >= MinNameLength &&
		length(p.firstName) >= MinNameLength &&
		validate.Mail(trimmed(p.email)) &&
		length(p.message) >= MinMessageLength
}

func (p *Contact) updateButton() {
	p.disableSend(!p.valid())
}

func (p *Contact) disableSend(disabled bool) {
	if disabled {
		p.send.AddClass(disabledClasses...)
	} else {
		p.send.RemoveClass(disabledClasses...)
	}
	p.send.SetDisabled(disabled)
}

func (p *Contact) updateCounter(n int) {
	if p.counter == nil {
		return
	}
	p.counter.SetText(counterText(n))
	p.counter.RemoveClass("text-gray-500", "text-red-500", "text-green-500")
	switch {
	case n == 0:
		p.counter.AddClass("text-gray-500")
	case n < MinMessageLength:
		p.counter.AddClass("text-red-500")
	default:
		p.counter.AddClass("text-green-500")
	}
}

// check marks every field and returns the first failure.
func (p *Contact) check() (string, bool) {
	rules := []struct {
		el  *dom.Element
		ok  bool
		msg string
	}{
		{p.lastName, length(p.lastName) >= MinNameLength, "Le nom doit contenir au moins 2 caractères"},
		{p.firstName, length(p.firstName) >= MinNameLength, "Le prénom doit contenir au moins 2 caractères"},
		{p.email, validate.Mail(trimmed(p.email)), "Adresse email invalide"},
		{p.message, length(p.message) >= MinMessageLength, "Le message doit contenir au moins 50 caractères"},
	}
	first := ""
	for _, r := range rules {
		if r.ok {
			r.el.AddClass("is-valid")
			continue
		}
		r.el.AddClass("is-invalid")
		if first == "" {
			first = r.msg
		}
	}
	return first, first == ""
}

func (p *Contact) submit(ctx context.Context) {
	if msg, ok := p.check(); !ok {
		p.env.Toast.Error(ctx, "Formulaire incomplet", msg)
		return
	}

	p.disableSend(true)
	p.send.SetText("Envoi en cours...")
	defer func() {
		p.send.SetText("Envoyer")
		p.updateButton()
	}()

	_, err := call(ctx, p.env.API, api.Contact, api.Action{
		"action":    "sendEmail",
		"lastName":  trimmed(p.lastName),
		"firstName": trimmed(p.firstName),
		"email":     trimmed(p.email),
		"message":   trimmed(p.message),
	})
	if err != nil {
		p.logger.Warn("send mail failed", "err", err)
		p.env.Toast.Error(ctx, message(err, "Une erreur est survenue"), "")
		return
	}

	p.env.Toast.Success(ctx, "Message envoyé avec succès", "")
	p.form.Reset()
	for _, el := range []*dom.Element{p.lastName, p.firstName, p.email, p.message} {
		el.RemoveClass("is-invalid", "is-valid")
	}
	if p.counter != nil {
		p.counter.SetText(counterText(0))
		p.counter.RemoveClass("text-green-500")
		p.counter.AddClass("text-gray-500")
	}
}

func counterText(n int) string {
	return fmt.Sprintf("%d/%d caractères minimum", n, MinMessageLength)
}

func trimmed(el *dom.Element) string {
	return strings.TrimSpace(el.Value())
}

func length(el *dom.Element) int {
	return utf8.RuneCountInString(trimmed(el))
}
