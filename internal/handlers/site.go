package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"myeasyevent_front/web/templates/pages"
)

// SiteTitle is the document title of the application shell.
const SiteTitle = "My Easy Event"

// SiteHandler serves the single-page application: the index shell for every
// client route and the component fragments the client fetches.
type SiteHandler struct {
	assets fs.FS
	prefix string
}

// NewSiteHandler creates a SiteHandler over an asset tree holding
// components/ and css/. prefix is the deployment sub-path.
func NewSiteHandler(assets fs.FS, prefix string) *SiteHandler {
	return &SiteHandler{assets: assets, prefix: strings.TrimRight(prefix, "/")}
}

// Assets returns the asset tree.
func (h *SiteHandler) Assets() fs.FS { return h.assets }

// Prefix returns the deployment sub-path.
func (h *SiteHandler) Prefix() string { return h.prefix }

// Index renders the application shell.
func (h *SiteHandler) Index(c echo.Context) error {
	props := pages.IndexProps{
		Title:       SiteTitle,
		AssetPrefix: h.AssetPrefix(c.Request().URL.Path),
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return pages.Index(props).Render(c.Request().Context(), c.Response())
}

// Component serves components/{name}.
func (h *SiteHandler) Component(c echo.Context) error {
	name := c.Param("name")
	if name == "" || strings.ContainsAny(name, `/\`) || path.Ext(name) != ".html" {
		return echo.NewHTTPError(http.StatusNotFound, "Component not found")
	}

	data, err := fs.ReadFile(h.assets, path.Join("components", name))
	if errors.Is(err, fs.ErrNotExist) {
		return echo.NewHTTPError(http.StatusNotFound, "Component not found")
	}
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, echo.MIMETextHTMLCharsetUTF8, data)
}

// Health reports that the server is up.
func (h *SiteHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// AssetPrefix returns the mount prefix when p lies under it, on a segment
// boundary, and the empty string otherwise.
func (h *SiteHandler) AssetPrefix(p string) string {
	if h.prefix == "" {
		return ""
	}
	if p == h.prefix || strings.HasPrefix(p, h.prefix+"/") {
		return h.prefix
	}
	return ""
}
