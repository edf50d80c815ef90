package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableResolve(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		path string
		view string
	}{
		{"/", "accueil"},
		{"/accueil", "accueil"},
		{"/evenements", "evenements"},
		{"/evenements?filter=jeux", "evenements"},
		{"/dashboard/", "dashboard"},
		{"/create-event", "create-event"},
		{"/event-detail?id=4", "event-detail"},
		{"/mentions-legales", "mentions-legales"},
		{"/nope", "404"},
		{"/dashboard/settings", "404"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.view, table.Resolve(tt.path).View)
		})
	}
	assert.Equal(t, "Dashboard - My Easy Event", table.Resolve("/dashboard").Title)
}

func TestResolveFallbacks(t *testing.T) {
	onlyRoot := Table{"/": {View: "home", Title: "Home"}}
	assert.Equal(t, "home", onlyRoot.Resolve("/missing").View)

	assert.Equal(t, NotFound, Table{}.Resolve("/missing"))
}

func TestNewTable(t *testing.T) {
	table, err := NewTable(map[string]Route{
		"/":       {View: "accueil"},
		"/404/":   {View: "404"},
		"contact": {View: "contact"},
	})
	require.NoError(t, err)
	assert.Equal(t, "contact", table.Resolve("/contact").View)
	assert.Equal(t, "404", table.Resolve("/x").View)

	_, err = NewTable(map[string]Route{"/": {View: "accueil"}})
	assert.ErrorIs(t, err, ErrMissingFallback)

	_, err = NewTable(map[string]Route{
		"/":      {View: "a"},
		"/404":   {View: "404"},
		"/login": {View: "login"},
		"login/": {View: "login2"},
	})
	assert.Error(t, err)
}
