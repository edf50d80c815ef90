package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMiddleware "myeasyevent_front/internal/middleware"
	"myeasyevent_front/web"
)

const prefix = "/myeasyevent-front"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appMiddleware.ErrorHandler(prefix)
	Register(e, NewSiteHandler(web.Static(), prefix+"/"))
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newServer(t), http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestComponent(t *testing.T) {
	e := newServer(t)
	for _, target := range []string{"/components/header.html", prefix + "/components/header.html"} {
		t.Run(target, func(t *testing.T) {
			rec := serve(e, http.MethodGet, target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
			assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
			assert.Contains(t, rec.Body.String(), `<template id="header">`)
		})
	}
}

func TestComponentNotFound(t *testing.T) {
	e := newServer(t)
	tests := []string{
		"/components/missing.html",
		"/components/header.txt",
		prefix + "/components/footer",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rec := serve(e, http.MethodGet, target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
			body := rec.Body.String()
			assert.Contains(t, body, "Page introuvable")
			assert.Contains(t, body, "Component not found")
			assert.NotContains(t, body, "<header>", "asset errors come without the layout")
		})
	}
}

func TestStaticAssets(t *testing.T) {
	e := newServer(t)
	for _, target := range []string{"/static/css/app.css", prefix + "/static/css/app.css"} {
		rec := serve(e, http.MethodGet, target)
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/css")
		assert.Contains(t, rec.Body.String(), ".toast-container")
	}

	rec := serve(e, http.MethodGet, "/static/css/missing.css")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<header>")
}

func TestIndexServesEveryRoute(t *testing.T) {
	e := newServer(t)
	tests := []struct {
		target string
		css    string
	}{
		{"/", `href="/static/css/app.css"`},
		{"/dashboard", `href="/static/css/app.css"`},
		{"/myeasyevent-frontend/login", `href="/static/css/app.css"`},
		{prefix, `href="/myeasyevent-front/static/css/app.css"`},
		{prefix + "/", `href="/myeasyevent-front/static/css/app.css"`},
		{prefix + "/event-detail?id=3", `href="/myeasyevent-front/static/css/app.css"`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(e, http.MethodGet, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, "<title>My Easy Event</title>")
			assert.Contains(t, body, "<header></header>")
			assert.Contains(t, body, `<div id="toasts" class="toast-container"></div>`)
			assert.Contains(t, body, tt.css)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	e := newServer(t)

	rec := serve(e, http.MethodPost, "/login")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Méthode non autorisée")
	assert.Contains(t, body, `aria-label="breadcrumb"`)
	assert.Contains(t, body, "<header></header>", "page errors keep the layout")

	rec = serve(e, http.MethodHead, "/components/header.html")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAssetPrefix(t *testing.T) {
	h := NewSiteHandler(web.Static(), prefix)
	assert.Equal(t, prefix, h.Prefix())
	assert.Equal(t, prefix, h.AssetPrefix(prefix))
	assert.Equal(t, prefix, h.AssetPrefix(prefix+"/contact"))
	assert.Equal(t, "", h.AssetPrefix(prefix+"end/contact"))
	assert.Equal(t, "", h.AssetPrefix("/contact"))

	root := NewSiteHandler(web.Static(), "")
	assert.Equal(t, "", root.AssetPrefix(prefix+"/contact"))
}
