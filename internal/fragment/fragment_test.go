package fragment

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type getter struct {
	base   string
	client *http.Client
	paths  []string
}

func (g *getter) Get(ctx context.Context, ref string) (*http.Response, error) {
	g.paths = append(g.paths, ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+ref, nil)
	if err != nil {
		return nil, err
	}
	return g.client.Do(req)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/myeasyevent-front/components/login.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<template id="login"><main class="login"><form id="loginForm"></form></main></template>`)
	})
	mux.HandleFunc("/myeasyevent-front/components/broken.html", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := newServer(t)
	g := &getter{base: srv.URL, client: srv.Client()}
	src := NewHTTPSource(g, "/myeasyevent-front")

	assert.Equal(t, "/myeasyevent-front/components/login.html", src.Path("login"))

	body, err := src.Fetch(context.Background(), "login")
	require.NoError(t, err)
	assert.Contains(t, string(body), `id="loginForm"`)

	_, err = src.Fetch(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrStatus)

	_, err = src.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStatus)

	assert.Equal(t, []string{
		"/myeasyevent-front/components/login.html",
		"/myeasyevent-front/components/broken.html",
		"/myeasyevent-front/components/missing.html",
	}, g.paths)
}

func TestLoad(t *testing.T) {
	srv := newServer(t)
	src := NewHTTPSource(&getter{base: srv.URL, client: srv.Client()}, "/myeasyevent-front")

	f, err := Load(context.Background(), src, "login")
	require.NoError(t, err)
	assert.Equal(t, `<main class="login"><form id="loginForm"></form></main>`, f.HTML())
}

func TestFind(t *testing.T) {
	markup := []byte(`<div><template id="404"><main>perdu</main></template><section id="cgu"><p>cgu</p></section></div>`)

	f, id, err := Find(markup, "dashboard", "404")
	require.NoError(t, err)
	assert.Equal(t, "404", id)
	assert.Equal(t, "<main>perdu</main>", f.HTML())

	f, id, err = Find(markup, "cgu")
	require.NoError(t, err)
	assert.Equal(t, "cgu", id)
	assert.Equal(t, "<p>cgu</p>", f.HTML())

	_, _, err = Find(markup, "dashboard")
	assert.True(t, errors.Is(err, ErrNotFound))
}

type staticSource map[string]string

func (s staticSource) Fetch(_ context.Context, name string) ([]byte, error) {
	if v, ok := s[name]; ok {
		return []byte(v), nil
	}
	return nil, ErrStatus
}

func TestLoadWrongID(t *testing.T) {
	src := staticSource{"header": `<template id="footer"><p>x</p></template>`}
	_, err := Load(context.Background(), src, "header")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Load(context.Background(), src, "absent")
	assert.ErrorIs(t, err, ErrStatus)
}

func TestFSSource(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"components/contact.html": {Data: []byte(`<template id="contact"><main>Contact</main></template>`)},
	})

	f, err := Load(context.Background(), src, "contact")
	require.NoError(t, err)
	assert.Contains(t, f.HTML(), "<main>Contact</main>")

	_, err = src.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Fetch(ctx, "contact")
	assert.ErrorIs(t, err, context.Canceled)
}
