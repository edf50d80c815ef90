package pages

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/page"
)

// EventDetail shows one event and takes reservations for it.
type EventDetail struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger

	mu    sync.Mutex
	event *Event
}

// NewEventDetail is the factory of the event detail module.
func NewEventDetail(env *page.Env) (page.Module, error) {
	return &EventDetail{env: env, doc: env.Window.Document, logger: env.Log("event-detail")}, nil
}

func (p *EventDetail) Init(ctx context.Context) error {
	id := p.env.Window.Query().Get("id")
	if id == "" {
		p.env.Toast.Error(ctx, "ID événement manquant", "")
		p.env.Nav.Navigate(ctx, "/evenements")
		return nil
	}
	if !p.load(ctx, id) {
		return nil
	}
	p.initReservationForm()
	return nil
}

// Unmount forgets the loaded event.
func (p *EventDetail) Unmount(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.event = nil
	return nil
}

// Event returns the loaded event, or nil.
func (p *EventDetail) Event() *Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.event
}

func (p *EventDetail) load(ctx context.Context, id string) bool {
	resp, err := call(ctx, p.env.API, api.Events, api.Action{"action": "getEventById", "id": id})
	var data struct {
		Event *Event `json:"event"`
	}
	if err == nil {
		err = resp.Decode(&data)
	}
	switch {
	case err == nil && data.Event != nil:
	case err == nil, refused(err), errors.Is(err, api.ErrNoData):
		p.env.Toast.Error(ctx, "Événement introuvable", "")
		p.env.Nav.Navigate(ctx, "/evenements")
		return false
	default:
		p.logger.Error("load event", "id", id, "err", err)
		p.env.Toast.Error(ctx, "Erreur de chargement", "")
		return false
	}

	p.mu.Lock()
	p.event = data.Event
	p.mu.Unlock()

	if target := p.doc.GetElementByID("eventHtml"); target != nil {
		if err := target.SetInnerHTML(sanitize(data.Event.HTML)); err != nil {
			p.logger.Error("render event", "id", id, "err", err)
		}
	}
	if loader := p.doc.GetElementByID("eventLoader"); loader != nil {
		loader.AddClass("hidden")
	}
	if content := p.doc.GetElementByID("eventContent"); content != nil {
		content.RemoveClass("hidden")
	}
	return true
}

func (p *EventDetail) initReservationForm() {
	if back := p.doc.GetElementByID("backToEvents"); back != nil {
		back.AddEventListener("click", func(ev *dom.Event) {
			p.env.Nav.Navigate(ev.Context(), "/evenements")
		})
	}
	if form := p.doc.GetElementByID("reservationForm"); form != nil {
		form.AddEventListener("submit", func(ev *dom.Event) {
			ev.PreventDefault()
			p.reserve(ev.Context(), form)
		})
	}
}

func (p *EventDetail) reserve(ctx context.Context, form *dom.Element) {
	firstName := value(p.doc, "firstName")
	lastName := value(p.doc, "lastName")
	email := value(p.doc, "email")
	birthDate := value(p.doc, "birthDate")
	if firstName == "" || lastName == "" || email == "" || birthDate == "" {
		p.env.Toast.Error(ctx, "Veuillez remplir tous les champs", "")
		return
	}

	event := p.Event()
	if event == nil {
		return
	}
	_, err := call(ctx, p.env.API, api.Reservation, api.Action{
		"action":    "addReservation",
		"eventId":   event.ID,
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"birthDate": birthDate,
	})
	if err != nil {
		p.logger.Warn("reservation failed", "event", event.ID, "err", err)
		p.env.Toast.Error(ctx, message(err, "Erreur lors de la réservation"), "")
		return
	}
	p.env.Toast.Success(ctx, "Réservation confirmée !", "Vous recevrez un email de confirmation")
	form.Reset()
}
