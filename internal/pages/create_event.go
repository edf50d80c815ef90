package pages

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/page"
)

// PublishRedirectDelay is waited after publishing before going back to the
// dashboard.
const PublishRedirectDelay = 2 * time.Second

const defaultTitleColor = "#1e3a5f"

// Template is an event layout offered by the backend.
type Template struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HTML        string `json:"html"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
}

// Draft is the event being edited.
type Draft struct {
	Title        string
	Description  string
	StartDate    string
	EndDate      string
	Street       string
	StreetNumber string
	ZipCode      string
	City         string
	Country      string
	Capacity     string
	MinAge       string
	Image        string
	TitleColor   string
}

func newDraft() Draft {
	return Draft{
		Title:      "Titre de l'événement",
		Country:    "France",
		Capacity:   "100",
		MinAge:     "0",
		TitleColor: defaultTitleColor,
	}
}

// Address formats the postal address on one line, "" while no address
// field is filled in.
func (d Draft) Address() string {
	if d.Street == "" && d.StreetNumber == "" && d.ZipCode == "" && d.City == "" {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s, %s %s, %s", d.StreetNumber, d.Street, d.ZipCode, d.City, d.Country))
}

// fill replaces the {{placeholders}} of a template with the draft values.
// preview keeps placeholder defaults for empty fields.
func (d Draft) fill(tmpl string, preview bool) string {
	title, address := d.Title, d.Address()
	if preview {
		title = firstOf(title, "Titre de l'événement")
		address = firstOf(address, "Adresse non définie")
	}
	pairs := []string{
		"{{title}}", html.EscapeString(title),
		"{{description}}", html.EscapeString(d.Description),
		"{{address}}", html.EscapeString(address),
		"{{titleColor}}", html.EscapeString(firstOf(d.TitleColor, defaultTitleColor)),
		"{{image}}", html.EscapeString(d.Image),
	}
	if d.StartDate != "" || preview {
		pairs = append(pairs, "{{startDate}}", shortDate(d.StartDate))
	}
	if d.EndDate != "" || preview {
		pairs = append(pairs, "{{endDate}}", shortDate(d.EndDate))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var draftFields = map[string]func(*Draft, string) bool{
	"editTitle":        func(d *Draft, v string) bool { d.Title = v; return false },
	"editDescription":  func(d *Draft, v string) bool { d.Description = v; return false },
	"editStartDate":    func(d *Draft, v string) bool { d.StartDate = v; return false },
	"editEndDate":      func(d *Draft, v string) bool { d.EndDate = v; return false },
	"editStreet":       func(d *Draft, v string) bool { d.Street = v; return true },
	"editStreetNumber": func(d *Draft, v string) bool { d.StreetNumber = v; return true },
	"editZipCode":      func(d *Draft, v string) bool { d.ZipCode = v; return true },
	"editCity":         func(d *Draft, v string) bool { d.City = v; return true },
	"editCountry":      func(d *Draft, v string) bool { d.Country = v; return true },
	"editCapacity":     func(d *Draft, v string) bool { d.Capacity = v; return false },
	"editMinAge":       func(d *Draft, v string) bool { d.MinAge = v; return false },
	"editTitleColor":   func(d *Draft, v string) bool { d.TitleColor = v; return false },
	"editImage":        func(d *Draft, v string) bool { d.Image = v; return false },
}

// CreateEvent lets an organizer pick a template, fill it in with a live
// preview and publish the event.
type CreateEvent struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger

	// RedirectDelay overrides PublishRedirectDelay when set before Init.
	RedirectDelay time.Duration
	// Now stamps the publish date.
	Now func() time.Time

	mu              sync.Mutex
	template        *Template
	draft           Draft
	addressOK       bool
	editorReady     bool
	selectorsLoaded bool
	timer           *time.Timer
	docListeners    listeners
}

// NewCreateEvent is the factory of the event creation module.
func NewCreateEvent(env *page.Env) (page.Module, error) {
	return &CreateEvent{
		env:           env,
		doc:           env.Window.Document,
		logger:        env.Log("create-event"),
		RedirectDelay: PublishRedirectDelay,
		Now:           time.Now,
	}, nil
}

func (p *CreateEvent) Init(ctx context.Context) error {
	if back := p.doc.GetElementByID("backToDashboard"); back != nil {
		back.AddEventListener("click", func(ev *dom.Event) {
			p.env.Nav.Navigate(ev.Context(), "/dashboard")
		})
	}
	if grid := p.doc.GetElementByID("templatesGrid"); grid != nil {
		grid.AddEventListener("click", func(ev *dom.Event) {
			if ev.Target == nil {
				return
			}
			if card := ev.Target.Closest(".template-card"); card != nil {
				p.selectTemplate(ev.Context(), card.Attr("data-template-id"), false)
			}
		})
	}
	p.initSelectorModal()
	p.loadTemplates(ctx)
	return nil
}

// Unmount drops the draft, a pending redirect and the document listeners.
func (p *CreateEvent) Unmount(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.docListeners.close()
	p.template = nil
	p.draft = Draft{}
	p.addressOK = false
	return nil
}

// Draft returns a copy of the event being edited.
func (p *CreateEvent) Draft() Draft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

func (p *CreateEvent) fetchTemplates(ctx context.Context) ([]Template, error) {
	resp, err := call(ctx, p.env.API, api.Templates, api.Action{
		"action":  "getAllTemplates",
		"session": p.env.Session.Token(),
	})
	if err != nil {
		return nil, err
	}
	var data struct {
		Templates []Template `json:"templates"`
	}
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	return data.Templates, nil
}

func (p *CreateEvent) loadTemplates(ctx context.Context) {
	loader := p.doc.GetElementByID("templatesLoader")
	grid := p.doc.GetElementByID("templatesGrid")
	empty := p.doc.GetElementByID("noTemplatesMessage")
	if grid == nil {
		return
	}
	hide := func(el *dom.Element) {
		if el != nil {
			el.AddClass("hidden")
		}
	}

	templates, err := p.fetchTemplates(ctx)
	hide(loader)
	if err != nil && !refused(err) {
		p.logger.Error("load templates", "err", err)
		p.env.Toast.Error(ctx, "Erreur de chargement des templates", "")
		return
	}
	if len(templates) == 0 {
		if empty != nil {
			empty.RemoveClass("hidden")
		}
		return
	}

	var b strings.Builder
	for _, t := range templates {
		b.WriteString(p.templateCard(t))
	}
	grid.RemoveClass("hidden")
	if err := grid.SetInnerHTML(b.String()); err != nil {
		p.logger.Error("render templates", "err", err)
	}
}

func (p *CreateEvent) templateCard(t Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="bg-white rounded-lg shadow-lg overflow-hidden cursor-pointer template-card" data-template-id="%s">`, html.EscapeString(string(t.ID)))
	b.WriteString(`<div class="aspect-video bg-gray-200 flex items-center justify-center overflow-hidden">`)
	if len(t.Images) > 0 {
		fmt.Fprintf(&b, `<img src="%s" alt="%s" class="w-full h-full object-cover"/>`,
			html.EscapeString(p.env.API.URL(t.Images[0].URL)), html.EscapeString(t.Title))
	}
	b.WriteString(`</div><div class="p-4">`)
	fmt.Fprintf(&b, `<h3 class="text-lg font-bold mb-2">%s</h3>`, html.EscapeString(t.Title))
	fmt.Fprintf(&b, `<p class="text-sm text-gray-600 line-clamp-2">%s</p>`, html.EscapeString(firstOf(t.Description, "Aucune description")))
	if len(t.Categories) > 0 {
		b.WriteString(`<div class="mt-3 flex flex-wrap gap-2">`)
		for _, c := range t.Categories {
			fmt.Fprintf(&b, `<span class="px-2 py-1 text-xs rounded-full">%s</span>`, html.EscapeString(c.Name))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

// selectTemplate loads a template by id and opens the editor on it.
func (p *CreateEvent) selectTemplate(ctx context.Context, id string, fromModal bool) {
	resp, err := call(ctx, p.env.API, api.Templates, api.Action{
		"action":  "getTemplateById",
		"session": p.env.Session.Token(),
		"id":      id,
	})
	var data struct {
		Template *Template `json:"template"`
	}
	if err == nil {
		err = resp.Decode(&data)
	}
	if err != nil || data.Template == nil {
		p.logger.Warn("load template", "id", id, "err", err)
		if refused(err) || err == nil {
			p.env.Toast.Error(ctx, "Impossible de charger le template", "")
		} else {
			p.env.Toast.Error(ctx, "Erreur de chargement", "")
		}
		return
	}

	p.mu.Lock()
	p.template = data.Template
	p.draft = newDraft()
	p.addressOK = false
	first := !p.editorReady
	p.editorReady = true
	p.mu.Unlock()

	if step := p.doc.GetElementByID("templateSelectionStep"); step != nil {
		step.AddClass("hidden")
	}
	if step := p.doc.GetElementByID("templateEditorStep"); step != nil {
		step.RemoveClass("hidden")
	}
	if first {
		p.initEditor()
	}
	p.updatePreview()

	if fromModal {
		if modal := p.doc.GetElementByID("templateSelectorModal"); modal != nil {
			modal.AddClass("hidden")
		}
		p.env.Toast.Success(ctx, "Template chargé !", "")
	}
}

func (p *CreateEvent) updatePreview() {
	p.mu.Lock()
	t, d := p.template, p.draft
	p.mu.Unlock()
	preview := p.doc.GetElementByID("templatePreview")
	if preview == nil || t == nil {
		return
	}
	if err := preview.SetInnerHTML(sanitize(d.fill(t.HTML, true))); err != nil {
		p.logger.Error("render preview", "err", err)
	}
}

func (p *CreateEvent) initEditor() {
	if form := p.doc.GetElementByID("eventEditorForm"); form != nil {
		form.AddEventListener("input", func(ev *dom.Event) {
			if ev.Target == nil {
				return
			}
			set, ok := draftFields[ev.Target.ID()]
			if !ok {
				return
			}
			p.mu.Lock()
			if set(&p.draft, ev.Target.Value()) {
				p.addressOK = false
			}
			p.mu.Unlock()
			p.updatePreview()
		})
	}
	if btn := p.doc.GetElementByID("btnValidateAddress"); btn != nil {
		btn.AddEventListener("click", func(ev *dom.Event) { p.validateAddress(ev.Context()) })
	}
	if closer := p.doc.GetElementByID("closeEditorPanel"); closer != nil {
		closer.AddEventListener("click", func(*dom.Event) {
			if panel := p.doc.GetElementByID("editorPanel"); panel != nil {
				panel.AddClass("translate-x-full")
			}
		})
	}
	if btn := p.doc.GetElementByID("btnSave"); btn != nil {
		btn.AddEventListener("click", func(*dom.Event) {
			p.logger.Info("draft saving is not available")
		})
	}
	if btn := p.doc.GetElementByID("btnPublish"); btn != nil {
		btn.AddEventListener("click", func(ev *dom.Event) { p.publish(ev.Context()) })
	}
}

type addressValidation struct {
	Validation struct {
		Result struct {
			Verdict struct {
				AddressComplete bool `json:"addressComplete"`
			} `json:"verdict"`
			Address struct {
				PostalAddress struct {
					AddressLines []string `json:"addressLines"`
					PostalCode   string   `json:"postalCode"`
					Locality     string   `json:"locality"`
				} `json:"postalAddress"`
			} `json:"address"`
		} `json:"result"`
	} `json:"validation"`
}

func (p *CreateEvent) validateAddress(ctx context.Context) {
	d := p.Draft()
	if d.Street == "" || d.StreetNumber == "" || d.ZipCode == "" || d.City == "" || d.Country == "" {
		p.env.Toast.Error(ctx, "Veuillez remplir tous les champs d'adresse", "")
		return
	}
	status := p.doc.GetElementByID("addressValidationStatus")
	btn := p.doc.GetElementByID("btnValidateAddress")
	setStatus := func(text, class string) {
		if status != nil {
			status.SetText(text)
			status.SetAttr("class", class)
		}
	}
	if btn != nil {
		btn.SetDisabled(true)
		btn.SetText("Vérification...")
	}
	setStatus("Vérification en cours...", "text-xs mt-2 text-blue-600")

	region := "BE"
	if d.Country == "France" {
		region = "FR"
	}
	resp, err := call(ctx, p.env.API, api.Address, api.Action{
		"action":      "validateAddress",
		"fullAddress": d.Address(),
		"regionCode":  region,
		"session":     p.env.Session.Token(),
	})
	var data addressValidation
	if err == nil {
		err = resp.Decode(&data)
	}
	if err != nil && !refused(err) {
		p.logger.Error("validate address", "err", err)
		setStatus("❌ Erreur de validation", "text-xs mt-2 text-red-600")
		if btn != nil {
			btn.SetText("✓ Vérifier l'adresse")
			btn.SetDisabled(false)
		}
		p.env.Toast.Error(ctx, "Erreur de validation d'adresse", "")
		return
	}
	if err != nil || !data.Validation.Result.Verdict.AddressComplete {
		p.mu.Lock()
		p.addressOK = false
		p.mu.Unlock()
		setStatus("⚠ Adresse introuvable ou invalide", "text-xs mt-2 text-orange-600")
		if btn != nil {
			btn.SetText("✓ Vérifier l'adresse")
			btn.SetDisabled(false)
		}
		p.env.Toast.Error(ctx, "Adresse non valide", "Vérifiez les informations saisies")
		return
	}

	postal := data.Validation.Result.Address.PostalAddress
	p.mu.Lock()
	if len(postal.AddressLines) > 0 && postal.AddressLines[0] != "" {
		number, street, _ := strings.Cut(postal.AddressLines[0], " ")
		p.draft.StreetNumber = firstOf(number, p.draft.StreetNumber)
		p.draft.Street = firstOf(street, p.draft.Street)
	}
	p.draft.ZipCode = firstOf(postal.PostalCode, p.draft.ZipCode)
	p.draft.City = firstOf(postal.Locality, p.draft.City)
	p.addressOK = true
	d = p.draft
	p.mu.Unlock()

	for id, v := range map[string]string{
		"editStreetNumber": d.StreetNumber,
		"editStreet":       d.Street,
		"editZipCode":      d.ZipCode,
		"editCity":         d.City,
	} {
		if el := p.doc.GetElementByID(id); el != nil {
			el.SetValue(v)
		}
	}
	setStatus("✓ Adresse validée et corrigée !", "text-xs mt-2 text-green-600 font-semibold")
	if btn != nil {
		btn.SetText("✓ Adresse validée")
		btn.SetAttr("class", "w-full px-4 py-2 bg-green-500 text-white rounded-lg cursor-default")
	}
	p.env.Toast.Success(ctx, "Adresse validée !", "")
	p.updatePreview()
}

func (p *CreateEvent) publish(ctx context.Context) {
	p.mu.Lock()
	d, t, addressOK := p.draft, p.template, p.addressOK
	p.mu.Unlock()
	if t == nil {
		return
	}

	if d.Title == "" || d.StartDate == "" || d.EndDate == "" || d.Street == "" || d.City == "" {
		p.env.Toast.Error(ctx, "Veuillez remplir tous les champs obligatoires", "")
		return
	}
	if !addressOK {
		p.env.Toast.Error(ctx, "Adresse non validée", `Veuillez cliquer sur "Vérifier l'adresse" avant de publier`)
		return
	}
	start, okStart := parseDate(d.StartDate)
	end, okEnd := parseDate(d.EndDate)
	if !okStart || !okEnd || !end.After(start) {
		p.env.Toast.Error(ctx, "La date de fin doit être après la date de début", "")
		return
	}

	var capacity interface{}
	if n, err := strconv.Atoi(d.Capacity); err == nil {
		capacity = n
	}
	_, err := call(ctx, p.env.API, api.Events, api.Action{
		"action": "addEvent",
		"event": map[string]interface{}{
			"title":           d.Title,
			"description":     firstOf(d.Description, "Pas de description"),
			"html":            d.fill(t.HTML, false),
			"street":          d.Street,
			"streetNumber":    d.StreetNumber,
			"zipCode":         d.ZipCode,
			"city":            d.City,
			"country":         d.Country,
			"startDate":       d.StartDate,
			"endDate":         d.EndDate,
			"publishDate":     p.Now().UTC().Format(time.RFC3339),
			"openReservation": d.StartDate,
			"maxReservation":  capacity,
			"price":           0,
			"ageRestriction":  firstOf(d.MinAge, "0"),
			"isOnline":        true,
			"isDeleted":       false,
		},
		"images":     []string{},
		"categories": []string{},
		"session":    p.env.Session.Token(),
	})
	if err != nil {
		p.logger.Warn("publish failed", "err", err)
		if refused(err) {
			p.env.Toast.Error(ctx, message(err, "Erreur lors de la publication"), "")
		} else {
			p.env.Toast.Error(ctx, "Erreur de publication", "")
		}
		return
	}

	p.env.Toast.Success(ctx, "Événement publié avec succès !", "")
	bg := context.WithoutCancel(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.RedirectDelay, func() {
		p.env.Nav.Navigate(bg, "/dashboard")
	})
}

// initSelectorModal wires the "change design" button, whose template list
// loads on first opening.
func (p *CreateEvent) initSelectorModal() {
	modal := p.doc.GetElementByID("templateSelectorModal")
	if modal == nil {
		return
	}
	p.mu.Lock()
	p.docListeners.add(p.doc.AddEventListener("click", func(ev *dom.Event) {
		if ev.Target == nil || ev.Target.Closest("#btnDesign") == nil {
			return
		}
		if !modal.HasClass("hidden") {
			modal.AddClass("hidden")
			return
		}
		p.mu.Lock()
		load := !p.selectorsLoaded
		p.selectorsLoaded = true
		p.mu.Unlock()
		if load {
			p.loadSelectorList(ev.Context())
		}
		modal.RemoveClass("hidden")
	}))
	p.mu.Unlock()

	if closer := p.doc.GetElementByID("closeTemplateModal"); closer != nil {
		closer.AddEventListener("click", func(*dom.Event) { modal.AddClass("hidden") })
	}
}

func (p *CreateEvent) loadSelectorList(ctx context.Context) {
	list := p.doc.GetElementByID("templateSelectorList")
	if list == nil {
		return
	}
	templates, err := p.fetchTemplates(ctx)
	if err != nil && !refused(err) {
		p.logger.Error("load template list", "err", err)
		_ = list.SetInnerHTML(`<p class="text-red-500 text-center py-4">Erreur de chargement</p>`)
		return
	}
	if len(templates) == 0 {
		_ = list.SetInnerHTML(`<p class="text-gray-500 text-center py-4">Aucun template disponible</p>`)
		return
	}

	var b strings.Builder
	for _, t := range templates {
		fmt.Fprintf(&b, `<div class="border border-gray-200 rounded-lg p-3 cursor-pointer template-selector-item" data-template-id="%s"><h4 class="font-semibold text-sm truncate">%s</h4><p class="text-xs text-gray-500 truncate">%s</p></div>`,
			html.EscapeString(string(t.ID)), html.EscapeString(t.Title), html.EscapeString(firstOf(t.Description, "Aucune description")))
	}
	if err := list.SetInnerHTML(b.String()); err != nil {
		p.logger.Error("render template list", "err", err)
		return
	}
	for _, item := range list.QuerySelectorAll(".template-selector-item") {
		item := item
		item.AddEventListener("click", func(ev *dom.Event) {
			p.selectTemplate(ev.Context(), item.Attr("data-template-id"), true)
		})
	}
}
