package router

import (
	"errors"
	"fmt"
)

// ErrMissingFallback is returned by NewTable when "/" or "/404" is absent.
var ErrMissingFallback = errors.New("route table needs \"/\" and \"/404\" entries")

// Route is what a path renders: the view (template and page module name)
// and the document title.
type Route struct {
	View  string
	Title string
}

// NotFound is the last-resort route when a table lacks its fallbacks.
var NotFound = Route{View: "404", Title: "404 - Page non trouvée"}

// Table maps canonical application paths to routes. Lookups are exact; there
// are no parameters and no prefix matching.
type Table map[string]Route

// DefaultTable returns the site's route table.
func DefaultTable() Table {
	return Table{
		"/accueil":          {View: "accueil", Title: "Accueil - My Easy Event"},
		"/evenements":       {View: "evenements", Title: "Événements - My Easy Event"},
		"/dashboard":        {View: "dashboard", Title: "Dashboard - My Easy Event"},
		"/contact":          {View: "contact", Title: "Contact - My Easy Event"},
		"/login":            {View: "login", Title: "Connexion - My Easy Event"},
		"/register":         {View: "register", Title: "Inscription - My Easy Event"},
		"/cgu":              {View: "cgu", Title: "Conditions Générales d'Utilisation - My Easy Event"},
		"/privacy-policy":   {View: "privacy-policy", Title: "Politique de Confidentialité - My Easy Event"},
		"/mentions-legales": {View: "mentions-legales", Title: "Mentions Légales - My Easy Event"},
		"/create-event":     {View: "create-event", Title: "Créer un événement - My Easy Event"},
		"/event-detail":     {View: "event-detail", Title: "Événement - My Easy Event"},
		"/404":              {View: "404", Title: "404 - Page non trouvée"},
		"/":                 {View: "accueil", Title: "Accueil - My Easy Event"},
	}
}

// NewTable copies routes with normalized keys and checks that both
// fallbacks are present.
func NewTable(routes map[string]Route) (Table, error) {
	t := make(Table, len(routes))
	for path, r := range routes {
		key := clean(path)
		if _, dup := t[key]; dup {
			return nil, fmt.Errorf("route %q: duplicate after normalization", path)
		}
		t[key] = r
	}
	if _, ok := t["/"]; !ok {
		return nil, ErrMissingFallback
	}
	if _, ok := t["/404"]; !ok {
		return nil, ErrMissingFallback
	}
	return t, nil
}

// Resolve returns the route for an application path. Query and fragment
// are ignored, a trailing slash is dropped, and unknown paths fall back to
// "/404", then "/". Resolve never fails.
func (t Table) Resolve(path string) Route {
	p, _ := SplitQuery(path)
	key := clean(p)
	if r, ok := t[key]; ok {
		return r
	}
	if r, ok := t["/404"]; ok {
		return r
	}
	if r, ok := t["/"]; ok {
		return r
	}
	return NotFound
}
