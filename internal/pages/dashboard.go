package pages

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"myeasyevent_front/internal/api"
	"myeasyevent_front/internal/auth"
	"myeasyevent_front/internal/browser"
	"myeasyevent_front/internal/dom"
	"myeasyevent_front/internal/page"
	"myeasyevent_front/internal/validate"
)

// Dashboard sections.
const (
	SectionInformations = "informations"
	SectionEvents       = "events"
	SectionAdminUsers   = "gestion-utilisateurs"
	SectionAdminEvents  = "gestion-evenements"
	SectionAdminStats   = "statistiques"
)

// Storage keys owned by the dashboard.
const (
	sidebarOpenKey = "sidebarOpen"
	activeTabKey   = "dashboardActiveTab"
	visitedKey     = "dashboardVisited"
)

// Dashboard is the account area: profile forms, the user's events and,
// for admins, the management sections. Sections load on first display.
type Dashboard struct {
	env    *page.Env
	doc    *dom.Document
	logger *log.Logger

	mu     sync.Mutex
	loaded map[string]bool
	open   bool
}

// NewDashboard is the factory of the dashboard module.
func NewDashboard(env *page.Env) (page.Module, error) {
	return &Dashboard{
		env:    env,
		doc:    env.Window.Document,
		logger: env.Log("dashboard"),
		loaded: make(map[string]bool),
	}, nil
}

func (p *Dashboard) Init(ctx context.Context) error {
	win := p.env.Window
	if browser.Lookup(ctx, win.Session, auth.RoleKey) == "admin" {
		for _, tab := range p.doc.QuerySelectorAll("[data-role=admin]") {
			tab.RemoveClass("hidden")
		}
	}

	p.initSidebar(ctx)
	p.initNavigation()

	active := SectionInformations
	if browser.Lookup(ctx, win.Session, visitedKey) != "" {
		if saved := browser.Lookup(ctx, win.Local, activeTabKey); saved != "" {
			active = saved
		}
	}
	_ = win.Session.Set(ctx, visitedKey, "true")

	p.setActiveTab(active)
	p.loadSection(ctx, active)
	return nil
}

// Unmount forgets the remembered tab so the next visit starts on the
// profile section.
func (p *Dashboard) Unmount(ctx context.Context) error {
	_ = p.env.Window.Local.Remove(ctx, activeTabKey)
	_ = p.env.Window.Session.Remove(ctx, visitedKey)
	return nil
}

// Loaded reports whether a section has been loaded.
func (p *Dashboard) Loaded(section string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded[section]
}

func (p *Dashboard) setActiveTab(section string) {
	for _, item := range p.doc.QuerySelectorAll(".nav-item") {
		item.RemoveClass("active")
		if ind := item.QuerySelector(".nav-indicator"); ind != nil {
			ind.SetAttr("style", "opacity: 0")
		}
	}
	if item := p.doc.QuerySelector("[data-section=" + section + "]"); item != nil {
		item.AddClass("active")
		if ind := item.QuerySelector(".nav-indicator"); ind != nil {
			ind.SetAttr("style", "opacity: 1")
		}
	}
	for _, s := range p.doc.QuerySelectorAll(".dashboard-section") {
		s.AddClass("hidden")
	}
	if target := p.doc.GetElementByID("section-" + section); target != nil {
		target.RemoveClass("hidden")
	}
}

func (p *Dashboard) initNavigation() {
	for _, item := range p.doc.QuerySelectorAll(".nav-item") {
		item := item
		item.AddEventListener("click", func(ev *dom.Event) {
			section := item.Data("section")
			if section == "" {
				return
			}
			_ = p.env.Window.Local.Set(ev.Context(), activeTabKey, section)
			p.setActiveTab(section)
			p.loadSection(ev.Context(), section)
		})
	}
}

func (p *Dashboard) loadSection(ctx context.Context, section string) {
	p.mu.Lock()
	if p.loaded[section] {
		p.mu.Unlock()
		return
	}
	p.loaded[section] = true
	p.mu.Unlock()

	p.logger.Debug("load section", "section", section)
	switch section {
	case SectionInformations:
		p.loadUserInfo(ctx)
		p.initProfileForms()
		p.initPasswordToggle()
	case SectionEvents:
		p.loadUserEvents(ctx)
	case SectionAdminUsers:
		p.loadAdmin(ctx, api.AdminUsers, "getAllUsers")
	case SectionAdminEvents:
		p.loadAdmin(ctx, api.AdminEvents, "getAllEvents")
	case SectionAdminStats:
		p.loadAdmin(ctx, api.AdminStats, "getStats")
	}
}

func (p *Dashboard) session() string { return p.env.Session.Token() }

func (p *Dashboard) loadUserInfo(ctx context.Context) {
	resp, err := call(ctx, p.env.API, api.Users, api.Action{"action": "getUser", "session": p.session()})
	if err != nil {
		if !refused(err) {
			p.env.Toast.Error(ctx, "Erreur de chargement des informations", "")
		}
		p.logger.Error("load user", "err", err)
		return
	}
	var data struct {
		User *struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
		} `json:"user"`
	}
	if err := resp.Decode(&data); err != nil || data.User == nil {
		p.logger.Error("load user: no profile", "err", err)
		return
	}
	for id, v := range map[string]string{
		"lastName":  data.User.LastName,
		"firstName": data.User.FirstName,
		"email":     data.User.Email,
	} {
		if el := p.doc.GetElementByID(id); el != nil {
			el.SetValue(v)
		}
	}
}

func (p *Dashboard) initProfileForms() {
	if btn := p.doc.GetElementByID("updateUserProfile"); btn != nil {
		btn.AddEventListener("click", func(ev *dom.Event) {
			ctx := ev.Context()
			lastName, firstName := value(p.doc, "lastName"), value(p.doc, "firstName")
			if lastName == "" || firstName == "" {
				p.env.Toast.Error(ctx, "Veuillez remplir tous les champs", "")
				return
			}
			p.update(ctx, api.Action{
				"action":  "updateUserProfile",
				"session": p.session(),
				"user":    map[string]string{"lastName": lastName, "firstName": firstName},
			}, "Informations mises à jour")
		})
	}

	if btn := p.doc.GetElementByID("updateUserEmail"); btn != nil {
		btn.AddEventListener("click", func(ev *dom.Event) {
			ctx := ev.Context()
			email := value(p.doc, "email")
			if !validate.Mail(email) {
				p.env.Toast.Error(ctx, "Adresse e-mail invalide", "")
				return
			}
			p.update(ctx, api.Action{
				"action":  "updateUserEmail",
				"session": p.session(),
				"email":   email,
			}, "Email mis à jour")
		})
	}

	if btn := p.doc.GetElementByID("updateUserPassword"); btn != nil {
		btn.AddEventListener("click", func(ev *dom.Event) {
			ctx := ev.Context()
			pwd, confirm := rawValue(p.doc, "newPassword"), rawValue(p.doc, "confirmPassword")
			if !validate.Password(pwd) {
				p.env.Toast.Error(ctx, "Mot de passe invalide", passwordHint)
				return
			}
			if pwd != confirm {
				p.env.Toast.Error(ctx, passwordMismatch, "")
				return
			}
			if p.update(ctx, api.Action{
				"action":      "updateUserPassword",
				"session":     p.session(),
				"newPassword": pwd,
			}, "Mot de passe modifié") {
				for _, id := range []string{"newPassword", "confirmPassword"} {
					if el := p.doc.GetElementByID(id); el != nil {
						el.SetValue("")
					}
				}
			}
		})
	}
}

// update sends a profile change and reports the outcome with a toast.
func (p *Dashboard) update(ctx context.Context, action api.Action, success string) bool {
	_, err := call(ctx, p.env.API, api.Users, action)
	switch {
	case err == nil:
		p.env.Toast.Success(ctx, success, "")
		return true
	case refused(err):
		p.env.Toast.Error(ctx, message(err, "Erreur lors de la mise à jour"), "")
	default:
		p.logger.Error("profile update", "action", action["action"], "err", err)
		p.env.Toast.Error(ctx, "Erreur de connexion", "")
	}
	return false
}

// initPasswordToggle flips password inputs to plain text and back.
func (p *Dashboard) initPasswordToggle() {
	for _, btn := range p.doc.QuerySelectorAll("button[type=button]") {
		box := btn.Closest(".relative")
		if box == nil {
			continue
		}
		input := box.QuerySelector("input")
		if input == nil {
			continue
		}
		kind := input.Attr("type")
		if kind != "password" && kind != "text" {
			continue
		}
		btn.AddEventListener("click", func(*dom.Event) {
			if input.Attr("type") == "password" {
				input.SetAttr("type", "text")
			} else {
				input.SetAttr("type", "password")
			}
		})
	}
}

func (p *Dashboard) loadUserEvents(ctx context.Context) {
	grid := p.doc.GetElementByID("userEventsGrid")
	empty := p.doc.GetElementByID("noEventsMessage")
	create := p.doc.GetElementByID("createEventBtn")
	if grid == nil || empty == nil || create == nil {
		p.logger.Error("events section markup missing")
		return
	}

	create.AddEventListener("click", func(ev *dom.Event) {
		p.env.Nav.Navigate(ev.Context(), "/create-event")
	})

	resp, err := call(ctx, p.env.API, api.Events, api.Action{"action": "getEventsOfUser", "session": p.session()})
	var data struct {
		Events []Event `json:"events"`
	}
	if err == nil {
		err = resp.Decode(&data)
	}
	if err != nil && !refused(err) {
		p.logger.Error("load user events", "err", err)
		p.env.Toast.Error(ctx, "Erreur de chargement des événements", "")
		return
	}
	if len(data.Events) == 0 {
		_ = grid.SetInnerHTML("")
		empty.RemoveClass("hidden")
		return
	}

	empty.AddClass("hidden")
	tmpl := cardTemplate(ctx, p.env.Components, p.logger)
	var b strings.Builder
	for _, ev := range data.Events {
		b.WriteString(renderCard(tmpl, ev))
	}
	if err := grid.SetInnerHTML(b.String()); err != nil {
		p.logger.Error("render user events", "err", err)
		return
	}
	for _, card := range grid.QuerySelectorAll("[data-event-id]") {
		card := card
		card.AddEventListener("click", func(*dom.Event) {
			p.logger.Debug("event card clicked", "id", card.Attr("data-event-id"))
		})
	}
}

func (p *Dashboard) loadAdmin(ctx context.Context, endpoint, action string) {
	resp, err := call(ctx, p.env.API, endpoint, api.Action{"action": action, "session": p.session()})
	switch {
	case forbidden(err):
		p.env.Toast.Error(ctx, "⛔ Accès refusé : droits admin requis", "")
	case err != nil && !refused(err):
		p.logger.Error("admin section", "action", action, "err", err)
		p.env.Toast.Error(ctx, "Erreur de chargement", "")
	case err == nil:
		p.logger.Info("admin data loaded", "action", action, "bytes", len(resp.Data))
	}
}

// initSidebar restores the collapsed state of the sidebar and wires its
// toggle.
func (p *Dashboard) initSidebar(ctx context.Context) {
	sidebar := p.doc.GetElementByID("sidebar")
	if sidebar == nil {
		return
	}
	p.mu.Lock()
	p.open = browser.Lookup(ctx, p.env.Window.Local, sidebarOpenKey) != "false"
	open := p.open
	p.mu.Unlock()
	p.applySidebar(sidebar, open)

	if toggle := p.doc.GetElementByID("toggleSidebar"); toggle != nil {
		toggle.AddEventListener("click", func(ev *dom.Event) {
			p.mu.Lock()
			p.open = !p.open
			open := p.open
			p.mu.Unlock()
			state := "false"
			if open {
				state = "true"
			}
			_ = p.env.Window.Local.Set(ev.Context(), sidebarOpenKey, state)
			p.applySidebar(sidebar, open)
		})
	}
}

func (p *Dashboard) applySidebar(sidebar *dom.Element, open bool) {
	icon := p.doc.GetElementByID("toggleIcon")
	title := p.doc.GetElementByID("sidebarTitle")
	texts := p.doc.QuerySelectorAll(".nav-text")
	if open {
		sidebar.SetAttr("style", "width: 300px")
		sidebar.RemoveClass("collapsed")
		if icon != nil {
			icon.SetAttr("style", "transform: rotate(0deg)")
		}
		if title != nil {
			title.SetAttr("style", "display: block")
		}
		for _, t := range texts {
			t.SetAttr("style", "display: inline")
		}
		return
	}
	sidebar.SetAttr("style", "width: 40px; padding-left: 0; padding-right: 0")
	sidebar.AddClass("collapsed")
	if icon != nil {
		icon.SetAttr("style", "transform: rotate(180deg)")
	}
	if title != nil {
		title.SetAttr("style", "display: none")
	}
	for _, t := range texts {
		t.SetAttr("style", "display: none")
	}
}
