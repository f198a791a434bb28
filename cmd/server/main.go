package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"schemagraph/internal/app"
	"schemagraph/internal/handlers"
	authMiddleware "schemagraph/internal/middleware"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := app.FromEnv()
	logger := app.NewLogger(cfg.LogLevel, false)
	if envErr != nil {
		logger.Debug("no .env file found, using system environment")
	}
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", "error", err)
	}
	defer a.Close()

	if a.Auth == nil && !cfg.AuthDisabled {
		logger.Warn("admin API disabled until Firebase credentials are provided")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = handlers.JSONSerializer{}
	e.HTTPErrorHandler = authMiddleware.CustomErrorHandler(logger)

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	renderer, err := NewTemplateRenderer("web/templates")
	if err != nil {
		logger.Fatal("failed to parse templates", "error", err)
	}
	e.Renderer = renderer

	// Static file serving
	e.Static("/static", "web/static")

	// a nil *auth.Client must stay a nil interface for the middleware
	var verifier authMiddleware.TokenVerifier
	var issuer handlers.SessionIssuer
	if a.Auth != nil {
		verifier, issuer = a.Auth, a.Auth
	}

	handlers.Handlers{
		Public:   handlers.NewPublicHandler(a.Pages, a.Graph, cfg.SiteName, cfg.SiteURL, cfg.PrettyJSON, logger),
		Schemas:  handlers.NewSchemaHandler(a.Pages, a.Custom, a.Graph, a.Registry, cfg.SiteName, cfg.SiteURL, logger),
		Settings: handlers.NewSettingsHandler(a.Settings),
		Menus:    handlers.NewMenuHandler(a.Menus),
		Auth:     handlers.NewAuthHandler(issuer),
	}.Register(e, authMiddleware.RequireEditor(verifier, cfg.AuthDisabled))

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Port, "site", cfg.SiteURL)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
