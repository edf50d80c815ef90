package main

import (
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"myeasyevent_front/internal/config"
	"myeasyevent_front/internal/handlers"
	appMiddleware "myeasyevent_front/internal/middleware"
	"myeasyevent_front/web"
)

func main() {
	cfg, loaded := config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "server"})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if !loaded {
		logger.Info("No .env file found, using system environment")
	}

	var assets fs.FS = web.Static()
	if cfg.StaticDir != "" {
		logger.Info("Serving assets from disk", "dir", cfg.StaticDir)
		assets = os.DirFS(cfg.StaticDir)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appMiddleware.ErrorHandler(cfg.MountPrefix)

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	site := handlers.NewSiteHandler(assets, cfg.MountPrefix)
	handlers.Register(e, site)

	logger.Info("Server starting", "port", cfg.Port, "prefix", cfg.MountPrefix)
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
