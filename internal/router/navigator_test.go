package router

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myeasyevent_front/internal/browser"
	"myeasyevent_front/internal/dom"
)

const links = `<html><body>
<a id="spa" data-spa href="/myeasyevent-front/evenements?filter=jeux">Jeux</a>
<a id="rel" data-spa href="contact"><span id="inner">Contact</span></a>
<a id="plain" href="/login">Login</a>
<a id="cross" data-spa href="https://elsewhere.test/accueil">Ailleurs</a>
</body></html>`

type recorder struct {
	paths []string
}

func (r *recorder) onChange(_ context.Context, path string) { r.paths = append(r.paths, path) }

func newNavigator(t *testing.T, base Base, initial string) (*Navigator, *browser.History, *dom.Document, *recorder) {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(links))
	require.NoError(t, err)
	origin, _ := url.Parse("http://localhost:8080")
	h := browser.NewHistory(initial)
	nav := NewNavigator(base, origin, h, log.New(io.Discard))
	rec := &recorder{}
	require.NoError(t, nav.Listen(doc, rec.onChange))
	return nav, h, doc, rec
}

func TestNavigate(t *testing.T) {
	ctx := context.Background()
	nav, h, _, rec := newNavigator(t, DeployPrefix, "/myeasyevent-front/")

	assert.True(t, nav.Navigate(ctx, "/dashboard"))
	assert.Equal(t, "/myeasyevent-front/dashboard", h.Current())

	assert.False(t, nav.Navigate(ctx, "/dashboard"), "same location is a no-op")
	assert.False(t, nav.Navigate(ctx, "/myeasyevent-front/dashboard/"))
	assert.Equal(t, 2, h.Len())

	assert.True(t, nav.Navigate(ctx, "/event-detail?id=7"))
	assert.Equal(t, "/myeasyevent-front/event-detail?id=7", h.Current())

	assert.Equal(t, []string{"/myeasyevent-front/dashboard", "/myeasyevent-front/event-detail?id=7"}, rec.paths)
}

func TestNavigateWithoutBase(t *testing.T) {
	nav, h, _, _ := newNavigator(t, "", "/")
	assert.False(t, nav.Navigate(context.Background(), "/"))
	assert.True(t, nav.Navigate(context.Background(), "http://localhost:8080/login"))
	assert.Equal(t, "/login", h.Current())
}

func TestLinkInterception(t *testing.T) {
	ctx := context.Background()
	_, h, doc, rec := newNavigator(t, DeployPrefix, "/myeasyevent-front/")

	assert.False(t, doc.Click(ctx, doc.GetElementByID("spa")), "default prevented")
	assert.Equal(t, "/myeasyevent-front/evenements?filter=jeux", h.Current())

	assert.False(t, doc.Click(ctx, doc.GetElementByID("inner")), "click inside the anchor")
	assert.Equal(t, "/myeasyevent-front/contact", h.Current())

	assert.True(t, doc.Click(ctx, doc.GetElementByID("plain")), "links without data-spa are left alone")
	assert.True(t, doc.Click(ctx, doc.GetElementByID("cross")), "cross-origin links are left alone")

	assert.Len(t, rec.paths, 2)
}

func TestPopState(t *testing.T) {
	ctx := context.Background()
	nav, h, _, rec := newNavigator(t, "", "/")

	nav.Navigate(ctx, "/contact")
	require.True(t, h.Back(ctx))
	assert.Equal(t, []string{"/contact", "/"}, rec.paths)
}

func TestListenTwiceAndClose(t *testing.T) {
	ctx := context.Background()
	nav, h, doc, rec := newNavigator(t, "", "/")

	assert.ErrorIs(t, nav.Listen(doc, rec.onChange), ErrAlreadyListening)

	nav.Close()
	assert.True(t, doc.Click(ctx, doc.GetElementByID("spa")))
	assert.True(t, nav.Navigate(ctx, "/login"), "navigation still updates history")
	assert.Equal(t, "/login", h.Current())
	assert.Empty(t, rec.paths)

	require.NoError(t, nav.Listen(doc, rec.onChange))
}

func TestHref(t *testing.T) {
	nav := NewNavigator(DeployPrefix, &url.URL{Scheme: "http", Host: "localhost"}, browser.NewHistory("/"), nil)
	assert.Equal(t, "/myeasyevent-front/evenements?filter=soirees", nav.Href("/evenements?filter=soirees"))
	assert.Equal(t, "/myeasyevent-front/", nav.Href("/"))
	assert.Equal(t, Base(DeployPrefix), nav.Base())
}
