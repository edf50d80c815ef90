package handlers

import (
	"github.com/labstack/echo/v4"

	appMiddleware "myeasyevent_front/internal/middleware"
)

// Register mounts the site on e, both at the root and under the mount
// prefix. Every GET that is not an asset falls back to the index shell.
func Register(e *echo.Echo, h *SiteHandler) {
	e.GET("/healthz", h.Health)

	bases := []string{""}
	if h.prefix != "" {
		bases = append(bases, h.prefix)
	}
	for _, base := range bases {
		e.GET(base+"/components/:name", h.Component, appMiddleware.NoStore())
		e.StaticFS(base+"/static", h.assets)
		e.GET(base+"/*", h.Index)
	}
	if h.prefix != "" {
		e.GET(h.prefix, h.Index)
	}
}
