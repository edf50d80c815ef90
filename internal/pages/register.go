package pages

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/page"
	"myeasyevent_front/internal/validate"
)

// RegisterRedirectDelay is waited after a successful subscription before
// going to the login view.
const RegisterRedirectDelay = 2 * time.Second

// Register creates an account.
type Register struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger

	// RedirectDelay overrides RegisterRedirectDelay when set before Init.
	RedirectDelay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewRegister is the factory of the subscription module.
func NewRegister(env *page.Env) (page.Module, error) {
	return &Register{
		env:           env,
		doc:           env.Window.Document,
		logger:        env.Log("register"),
		RedirectDelay: RegisterRedirectDelay,
	}, nil
}

func (p *Register) Init(context.Context) error {
	form := p.doc.GetElementByID("registerForm")
	if form == nil {
		return nil
	}
	form.AddEventListener("submit", func(ev *dom.Event) {
		ev.PreventDefault()
		p.submit(ev.Context())
	})
	return nil
}

// Unmount cancels a pending redirect.
func (p *Register) Unmount(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	return nil
}

func (p *Register) submit(ctx context.Context) {
	lastName := value(p.doc, "lastName")
	firstName := value(p.doc, "firstName")
	email := value(p.doc, "email")
	password := rawValue(p.doc, "password")
	confirm := rawValue(p.doc, "confirmPassword")

	switch {
	case lastName == "" || firstName == "" || email == "" || password == "" || confirm == "":
		p.env.Toast.Error(ctx, "Tous les champs sont obligatoires", "")
		return
	case !validate.Mail(email):
		p.env.Toast.Error(ctx, "Adresse email invalide", "")
		return
	case !validate.Password(password):
		p.env.Toast.Error(ctx, "Mot de passe invalide", passwordHint)
		return
	case password != confirm:
		p.env.Toast.Error(ctx, passwordMismatch, "")
		return
	}

	btn := p.doc.GetElementByID("registerBtn")
	if btn != nil {
		btn.SetDisabled(true)
		btn.SetText("Inscription en cours...")
		defer func() {
			btn.SetDisabled(false)
			btn.SetText("Inscription")
		}()
	}

	_, err := call(ctx, p.env.API, api.Connexions, api.Action{
		"action": "subscription",
		"user": map[string]string{
			"lastName":  lastName,
			"firstName": firstName,
			"email":     email,
			"password":  password,
		},
	})
	if err != nil {
		if !refused(err) {
			p.logger.Error("subscription failed", "err", err)
			p.env.Toast.Error(ctx, "Erreur de connexion au serveur", "")
			return
		}
		p.env.Toast.Error(ctx, "Erreur d'inscription", message(err, "Une erreur est survenue"))
		return
	}

	p.env.Toast.Success(ctx, "Inscription réussie !", "Un email de confirmation a été envoyé à votre adresse")
	bg := context.WithoutCancel(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.RedirectDelay, func() {
		p.env.Nav.Navigate(bg, "/login")
	})
}
