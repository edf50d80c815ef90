package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/fragment"
	"myeasyevent_front/internal/page"
)

// Filters narrow the events list. They come from the query string.
type Filters struct {
	Category string
	Date     string
	Location string
	Price    string
}

// Match reports whether ev passes every non-empty filter.
func (f Filters) Match(ev Event) bool {
	if f.Category != "" && !strings.EqualFold(ev.Category, f.Category) {
		return false
	}
	if f.Date != "" && ev.Day() != f.Date {
		return false
	}
	if f.Location != "" {
		if ev.Address == nil || !strings.EqualFold(ev.Address.City, f.Location) {
			return false
		}
	}
	if f.Price != "" && !strings.EqualFold(ev.PriceLabel(), f.Price) {
		return false
	}
	return true
}

// Evenements lists the published events, filtered by the query string.
type Evenements struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger
}

// NewEvenements is the factory of the events list module.
func NewEvenements(env *page.Env) (page.Module, error) {
	return &Evenements{env: env, doc: env.Window.Document, logger: env.Log("evenements")}, nil
}

func (p *Evenements) Init(ctx context.Context) error {
	q := p.env.Window.Query()
	f := Filters{
		Category: q.Get("filter"),
		Date:     q.Get("date"),
		Location: q.Get("location"),
		Price:    q.Get("price"),
	}
	p.logger.Debug("active filters", "category", f.Category, "date", f.Date, "location", f.Location, "price", f.Price)

	events, err := p.fetch(ctx)
	if err != nil {
		p.env.Toast.Error(ctx, "Erreur de chargement des événements", "")
		return fmt.Errorf("load events: %w", err)
	}

	var kept []Event
	for _, ev := range events {
		if f.Match(ev) {
			kept = append(kept, ev)
		}
	}
	p.display(ctx, kept)
	return nil
}

func (p *Evenements) fetch(ctx context.Context) ([]Event, error) {
	resp, err := call(ctx, p.env.API, api.Events, api.Action{"action": "getAllEvents"})
	if err != nil {
		return nil, err
	}
	var data struct {
		Events []Event `json:"events"`
	}
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	return data.Events, nil
}

func (p *Evenements) display(ctx context.Context, events []Event) {
	list := p.doc.GetElementByID("eventsList")
	if list == nil {
		return
	}
	empty := p.doc.GetElementByID("noEventsMessage")
	if len(events) == 0 {
		_ = list.SetInnerHTML("")
		if empty != nil {
			empty.RemoveClass("hidden")
		} else {
			_ = list.SetInnerHTML(`<p class="text-gray-500 text-center py-8">Aucun événement ne correspond à votre recherche.</p>`)
		}
		return
	}
	if empty != nil {
		empty.AddClass("hidden")
	}

	tmpl := cardTemplate(ctx, p.env.Components, p.logger)
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(renderCard(tmpl, ev))
	}
	if err := list.SetInnerHTML(b.String()); err != nil {
		p.logger.Error("render events", "err", err)
	}
}

// fallbackCard is used when components/eventCard.html cannot be loaded.
const fallbackCard = `<div class="bg-white rounded-lg shadow-lg overflow-hidden relative">{{ageBadge}}<a data-spa href="/event-detail?id={{id}}"><h3 class="text-xl font-bold">{{title}}</h3></a><p>{{address}}</p><p>{{startDate}}</p><p class="{{placesClass}}">{{placesText}}</p></div>`

// cardTemplate returns the markup of the eventCard template.
func cardTemplate(ctx context.Context, src fragment.Source, logger *log.Logger) string {
	frag, err := fragment.Load(ctx, src, "eventCard")
	if err != nil {
		logger.Warn("event card template unavailable", "err", err)
		return fallbackCard
	}
	return frag.HTML()
}
