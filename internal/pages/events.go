package pages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
)

// ID is an identifier the backend sends either as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// Count is a number the backend may send quoted.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	var id ID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	if id == "" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return fmt.Errorf("invalid count %s: %w", b, err)
	}
	*c = Count(n)
	return nil
}

// Address is the postal address of an event. The backend spells the
// street number field "streetNumer".
type Address struct {
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumer"`
	ZipCode      string `json:"zipCode"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// String formats the address on one line.
func (a *Address) String() string {
	if a == nil {
		return "Adresse non disponible"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s, %s %s, %s", a.Street, a.StreetNumber, a.ZipCode, a.City, a.Country))
}

// Organizer is the user who published an event.
type Organizer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Event is an event as listed by the backend.
type Event struct {
	ID             ID                `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Price          json.RawMessage   `json:"price"`
	StartDate      string            `json:"startDate"`
	EndDate        string            `json:"endDate"`
	Image          string            `json:"image"`
	HTML           string            `json:"html"`
	AgeRestriction json.RawMessage   `json:"ageRestriction"`
	MaxReservation Count             `json:"maxReservation"`
	Reservations   []json.RawMessage `json:"reservations"`
	Address        *Address          `json:"address"`
	User           *Organizer        `json:"user"`
}

// PriceLabel returns the price as text; 0 and empty read "gratuit".
func (e *Event) PriceLabel() string {
	s := strings.Trim(string(e.Price), `"`)
	switch s {
	case "", "null", "0", "0.0", "0.00", "gratuit":
		return "gratuit"
	}
	return s
}

// Places returns the number of free places.
func (e *Event) Places() int {
	return int(e.MaxReservation) - len(e.Reservations)
}

// Day returns the start date as YYYY-MM-DD, or "" if it cannot be read.
func (e *Event) Day() string {
	if t, ok := parseDate(e.StartDate); ok {
		return t.Format("2006-01-02")
	}
	return ""
}

var ageBadges = map[int]string{
	0:  `<div class="absolute top-4 right-4 bg-green-500 text-white px-3 py-1 rounded-full text-sm font-semibold">Tout public</div>`,
	12: `<div class="absolute top-4 right-4 bg-blue-500 text-white px-3 py-1 rounded-full text-sm font-semibold">12+</div>`,
	16: `<div class="absolute top-4 right-4 bg-orange-500 text-white px-3 py-1 rounded-full text-sm font-semibold">16+</div>`,
	18: `<div class="absolute top-4 right-4 bg-red-500 text-white px-3 py-1 rounded-full text-sm font-semibold">18+</div>`,
}

const defaultEventImage = "/asset/img/default-event.jpg"

// renderCard fills the {{placeholders}} of the eventCard template. Values
// coming from the backend are escaped.
func renderCard(tmpl string, ev Event) string {
	age, _ := strconv.Atoi(strings.Trim(string(ev.AgeRestriction), `"`))
	badge, ok := ageBadges[age]
	if !ok {
		badge = ageBadges[0]
	}

	placesClass, placesText := "text-red-600", "Complet"
	if n := ev.Places(); n > 0 {
		placesClass, placesText = "text-green-600", fmt.Sprintf("%d place(s) disponible(s)", n)
	}

	image := ev.Image
	if image == "" {
		image = defaultEventImage
	}

	organizer := "Organisateur"
	if ev.User != nil {
		if name := strings.TrimSpace(ev.User.FirstName + " " + ev.User.LastName); name != "" {
			organizer = name
		}
	}

	r := strings.NewReplacer(
		"{{image}}", html.EscapeString(image),
		"{{ageBadge}}", badge,
		"{{title}}", html.EscapeString(ev.Title),
		"{{userName}}", html.EscapeString(organizer),
		"{{address}}", html.EscapeString(ev.Address.String()),
		"{{startDate}}", longDate(ev.StartDate),
		"{{endDate}}", longDate(ev.EndDate),
		"{{placesClass}}", placesClass,
		"{{placesText}}", placesText,
		"{{id}}", html.EscapeString(string(ev.ID)),
	)
	out := r.Replace(tmpl)
	return strings.Replace(out, `<div class="bg-white`, fmt.Sprintf(`<div data-event-id="%s" class="bg-white`, html.EscapeString(string(ev.ID))), 1)
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// longDate formats s as "02 janvier 2026 à 18:00".
func longDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return html.EscapeString(s)
	}
	return fmt.Sprintf("%02d %s %d à %02d:%02d", t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// shortDate formats s as "02/01/2026 à 18:00", "" when unreadable.
func shortDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return ""
	}
	return t.Format("02/01/2006") + " à " + t.Format("15:04")
}
