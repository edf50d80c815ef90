package pages

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/fragment"
	"myeasyevent_front/internal/page"
	"myeasyevent_front/internal/validate"
)

// DeviceRetryDelay is waited before listening again for the device
// confirmation.
const DeviceRetryDelay = 1500 * time.Millisecond

const deviceEvent = "validatedevice"

const waitingLoader = `<div class="flex flex-col items-center gap-2">
<svg class="animate-spin h-6 w-6" viewBox="0 0 24 24" fill="none" aria-hidden="true"><circle cx="12" cy="12" r="10" stroke="currentColor" stroke-width="4" opacity="0.25"></circle><path d="M22 12a10 10 0 0 1-10 10" stroke="currentColor" stroke-width="4"></path></svg>
<p class="text-sm text-gray-600">En attente de la confirmation de l’appareil…</p>
</div>`

// Login signs the user in. When the backend asks for a device
// confirmation, it listens on the device channel until the link in the
// e-mail is followed.
type Login struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger

	// RetryDelay overrides DeviceRetryDelay when set before Init.
	RetryDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLogin is the factory of the login module.
func NewLogin(env *page.Env) (page.Module, error) {
	return &Login{
		env:        env,
		doc:        env.Window.Document,
		logger:     env.Log("login"),
		RetryDelay: DeviceRetryDelay,
	}, nil
}

func (p *Login) Init(context.Context) error {
	form := p.doc.GetElementByID("loginForm")
	btn := p.doc.GetElementByID("btnConnect")
	if form == nil || btn == nil || p.doc.GetElementByID("email") == nil || p.doc.GetElementByID("password") == nil {
		return nil
	}
	form.AddEventListener("submit", func(ev *dom.Event) {
		ev.PreventDefault()
		p.submit(ev.Context())
	})
	btn.AddEventListener("click", func(ev *dom.Event) {
		ev.PreventDefault()
		p.submit(ev.Context())
	})
	return nil
}

// Unmount closes the device channel, if open, and waits for its listener.
func (p *Login) Unmount(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Listening reports whether the device channel listener runs.
func (p *Login) Listening() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done != nil
}

type loginData struct {
	Session      string `json:"session"`
	TokenSession string `json:"tokenSession"`
	Token        string `json:"token"`
	DeviceToken  string `json:"deviceToken"`
}

func (p *Login) submit(ctx context.Context) {
	email := value(p.doc, "email")
	pwd := rawValue(p.doc, "password")

	if !validate.Mail(email) {
		p.env.Toast.Error(ctx, "Adresse e-mail invalide", "")
		return
	}
	if !validate.Password(pwd) {
		p.env.Toast.Error(ctx, "Mot de passe invalide", passwordHint)
		return
	}

	resp, err := p.env.API.Call(ctx, api.Connexions, api.Action{
		"action":   "connectEmailPass",
		"email":    email,
		"password": pwd,
	})
	if err != nil {
		p.logger.Warn("login request failed", "err", err)
		p.env.Toast.Error(ctx, "Impossible de se connecter", "")
		return
	}
	if !resp.OK() {
		msg := resp.Message
		if msg == "" {
			msg = "Identifiants incorrects"
		}
		p.env.Toast.Error(ctx, msg, "")
		return
	}

	var data loginData
	if err := resp.Decode(&data); err != nil && !errors.Is(err, api.ErrNoData) {
		p.logger.Debug("login returned no data", "err", err)
	}

	if session := firstOf(data.Session, data.TokenSession); session != "" {
		p.env.Session.Store(session)
		if _, err := p.env.Session.Check(ctx); err != nil {
			p.logger.Debug("session check after login failed", "err", err)
		}
		p.env.Toast.Success(ctx, "Connecté !", "")
		p.env.Nav.Navigate(ctx, "/dashboard")
		return
	}

	token := firstOf(data.Token, data.DeviceToken, p.env.Session.DeviceToken(ctx))
	if token == "" {
		p.env.Toast.Success(ctx, firstOf(resp.Message, "Confirme ton appareil via l’e-mail reçu"), "")
		return
	}
	p.env.Toast.Success(ctx, firstOf(resp.Message, "Un e-mail de confirmation a été envoyé"),
		"Une fois confirmé, cette page se mettra à jour automatiquement.")
	p.waitForDevice(ctx, token)
}

// waitForDevice swaps the form for the waiting message and starts the
// device channel listener.
func (p *Login) waitForDevice(ctx context.Context, token string) {
	for _, id := range []string{"email", "password", "btnConnect"} {
		if el := p.doc.GetElementByID(id); el != nil {
			el.SetDisabled(true)
		}
	}
	if email := p.doc.GetElementByID("email"); email != nil {
		email.RemoveClass("is-valid")
	}

	if form := p.doc.GetElementByID("loginForm"); form != nil {
		if frag, err := fragment.Load(ctx, p.env.Components, "loginEmailCheck"); err == nil {
			_ = form.SetInnerHTML("")
			form.Append(frag)
		} else {
			p.logger.Debug("waiting message unavailable", "err", err)
		}
		loader := p.doc.CreateElement("div")
		loader.AddClass("flex", "justify-center", "mt-6")
		_ = loader.SetInnerHTML(waitingLoader)
		form.AppendChild(loader)
	}

	if err := p.env.Session.StoreDeviceToken(ctx, token); err != nil {
		p.logger.Warn("store device token", "err", err)
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	p.cancel, p.done = cancel, done
	p.mu.Unlock()

	go func() {
		confirmed := p.listen(listenCtx, token)
		close(done)
		if !confirmed {
			return
		}
		p.mu.Lock()
		if p.done == done {
			p.cancel, p.done = nil, nil
		}
		p.mu.Unlock()
		cancel()

		bg := context.WithoutCancel(ctx)
		p.env.Nav.Navigate(bg, "/")
		p.env.Toast.Success(bg, "Appareil confirmé", "")
	}()
}

// listen reads the device channel until the device is confirmed or ctx is
// cancelled. An empty confirmation or a dropped stream is retried after
// RetryDelay.
func (p *Login) listen(ctx context.Context, token string) bool {
	path := api.DeviceValidation + "?token=" + url.QueryEscape(token)
	for {
		confirmed, err := p.listenOnce(ctx, path)
		if confirmed {
			p.logger.Info("device confirmed")
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			p.logger.Debug("device channel dropped", "err", err)
		}

		t := time.NewTimer(p.RetryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
}

func (p *Login) listenOnce(ctx context.Context, path string) (bool, error) {
	stream, err := p.env.API.Subscribe(ctx, path)
	if err != nil {
		return false, err
	}
	defer stream.Close()

	stop := context.AfterFunc(ctx, func() { stream.Close() })
	defer stop()

	for {
		ev, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if ev.Name != deviceEvent {
			continue
		}
		return strings.TrimSpace(ev.Data) != "", nil
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
