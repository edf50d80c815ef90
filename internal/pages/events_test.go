package pages

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myeasyevent_front/internal/fragment"
	"myeasyevent_front/web"
)

func decodeEvent(t *testing.T, raw string) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	return ev
}

func TestEventDecoding(t *testing.T) {
	ev := decodeEvent(t, `{
		"id": 42,
		"title": "Concert",
		"maxReservation": "10",
		"reservations": [{"id": 1}, {"id": 2}],
		"price": "12.50",
		"ageRestriction": "16",
		"address": {"street": "Rue Haute", "streetNumer": "5", "zipCode": "1000", "city": "Bruxelles", "country": "Belgique"},
		"user": {"firstName": "Ada", "lastName": "Lovelace"}
	}`)

	assert.Equal(t, ID("42"), ev.ID)
	assert.Equal(t, Count(10), ev.MaxReservation)
	assert.Equal(t, 8, ev.Places())
	assert.Equal(t, "12.50", ev.PriceLabel())
	assert.Equal(t, "Rue Haute 5, 1000 Bruxelles, Belgique", ev.Address.String())

	ev = decodeEvent(t, `{"id": "abc", "maxReservation": null, "price": 0}`)
	assert.Equal(t, ID("abc"), ev.ID)
	assert.Equal(t, Count(0), ev.MaxReservation)
	assert.Equal(t, "gratuit", ev.PriceLabel())
	assert.Equal(t, "Adresse non disponible", ev.Address.String())

	var bad Event
	assert.Error(t, json.Unmarshal([]byte(`{"maxReservation": "ten"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"id": true}`), &bad))
}

func TestPriceLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{``, "gratuit"},
		{`null`, "gratuit"},
		{`0`, "gratuit"},
		{`"0.00"`, "gratuit"},
		{`"gratuit"`, "gratuit"},
		{`15`, "15"},
		{`"7.5"`, "7.5"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ev := Event{Price: json.RawMessage(tt.raw)}
			assert.Equal(t, tt.want, ev.PriceLabel())
		})
	}
}

func TestDates(t *testing.T) {
	assert.Equal(t, "14 juillet 2026 à 20:30", longDate("2026-07-14 20:30:00"))
	assert.Equal(t, "01 janvier 2027 à 00:00", longDate("2027-01-01"))
	assert.Equal(t, "bientôt &amp; plus", longDate("bientôt & plus"))

	assert.Equal(t, "14/07/2026 à 20:30", shortDate("2026-07-14T20:30"))
	assert.Equal(t, "", shortDate("demain"))

	ev := Event{StartDate: "2026-07-14T20:30:00Z"}
	assert.Equal(t, "2026-07-14", ev.Day())
	assert.Equal(t, "", (&Event{StartDate: "??"}).Day())
}

func TestRenderCard(t *testing.T) {
	tmpl := `<div class="bg-white">{{ageBadge}}<img src="{{image}}"/><h3>{{title}}</h3><p>{{userName}}</p><p>{{address}}</p><p>{{startDate}}</p><p class="{{placesClass}}">{{placesText}}</p><a href="/event-detail?id={{id}}"></a></div>`

	ev := decodeEvent(t, `{
		"id": 7,
		"title": "<b>Fête</b>",
		"startDate": "2026-07-14 20:30:00",
		"maxReservation": 3,
		"reservations": [{}],
		"ageRestriction": "18",
		"user": {"firstName": "Ada", "lastName": "Lovelace"}
	}`)
	out := renderCard(tmpl, ev)

	assert.Contains(t, out, `<div data-event-id="7" class="bg-white">`)
	assert.Contains(t, out, "&lt;b&gt;Fête&lt;/b&gt;")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "18+")
	assert.Contains(t, out, defaultEventImage)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Adresse non disponible")
	assert.Contains(t, out, "14 juillet 2026 à 20:30")
	assert.Contains(t, out, `class="text-green-600">2 place(s) disponible(s)`)
	assert.Contains(t, out, "/event-detail?id=7")
	assert.NotContains(t, out, "{{")

	full := decodeEvent(t, `{"id": 8, "maxReservation": 1, "reservations": [{}], "ageRestriction": 5, "image": "/img/x.jpg"}`)
	out = renderCard(tmpl, full)
	assert.Contains(t, out, `class="text-red-600">Complet`)
	assert.Contains(t, out, "Tout public")
	assert.Contains(t, out, "/img/x.jpg")
	assert.Contains(t, out, "<p>Organisateur</p>")
}

func TestCardTemplate(t *testing.T) {
	logger := log.New(io.Discard)
	ctx := context.Background()

	tmpl := cardTemplate(ctx, fragment.NewFSSource(web.Static()), logger)
	assert.Contains(t, tmpl, "{{title}}")
	assert.Contains(t, tmpl, `class="bg-white`)

	assert.Equal(t, fallbackCard, cardTemplate(ctx, fragment.NewFSSource(fstest.MapFS{}), logger))
}

func TestFiltersMatch(t *testing.T) {
	ev := decodeEvent(t, `{
		"category": "Concerts",
		"startDate": "2026-07-14 20:30:00",
		"price": 0,
		"address": {"city": "Liège"}
	}`)

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"no filter", Filters{}, true},
		{"category ignores case", Filters{Category: "concerts"}, true},
		{"other category", Filters{Category: "jeux"}, false},
		{"same day", Filters{Date: "2026-07-14"}, true},
		{"other day", Filters{Date: "2026-07-15"}, false},
		{"city", Filters{Location: "liège"}, true},
		{"other city", Filters{Location: "Namur"}, false},
		{"free", Filters{Price: "gratuit"}, true},
		{"paid", Filters{Price: "10"}, false},
		{"all filters", Filters{Category: "Concerts", Date: "2026-07-14", Location: "Liège", Price: "Gratuit"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Match(ev))
		})
	}

	assert.False(t, Filters{Location: "Liège"}.Match(Event{}), "events without address never match a location")
}
