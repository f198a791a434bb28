// Package app builds the shared components of the server, worker and CLI
// from environment configuration.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"schemagraph/internal/customschema"
	"schemagraph/internal/graph"
	"schemagraph/internal/menu"
	"schemagraph/internal/page"
	"schemagraph/internal/schema"
	"schemagraph/internal/services"
	"schemagraph/internal/settings"
)

// menuCacheTTL bounds how long a detected menu location is trusted.
const menuCacheTTL = 24 * time.Hour

// Config is the process configuration read from the environment.
type Config struct {
	DatabaseURL         string
	RedisURL            string
	FirebaseCredentials string
	AuthDisabled        bool
	Port                string
	SiteName            string
	SiteURL             string
	MenuRefresh         time.Duration
	LogLevel            string
	PrettyJSON          bool
}

// FromEnv reads Config, filling defaults for unset variables.
func FromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		AuthDisabled:        os.Getenv("ADMIN_AUTH_DISABLED") == "true",
		Port:                os.Getenv("PORT"),
		SiteName:            os.Getenv("SITE_NAME"),
		SiteURL:             strings.TrimRight(os.Getenv("SITE_URL"), "/"),
		MenuRefresh:         15 * time.Minute,
		LogLevel:            os.Getenv("LOG_LEVEL"),
		PrettyJSON:          os.Getenv("SCHEMA_PRETTY") == "true",
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "My Site"
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://localhost:" + cfg.Port
	}
	if raw := os.Getenv("MENU_REFRESH_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid MENU_REFRESH_INTERVAL %q", raw)
		}
		cfg.MenuRefresh = d
	}
	return cfg, nil
}

// NewLogger creates the process logger. verbose forces debug output.
func NewLogger(level string, verbose bool) *log.Logger {
	lvl := log.InfoLevel
	if parsed, err := log.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           lvl,
	})
	log.SetDefault(logger)
	return logger
}

// App holds the wired components.
type App struct {
	Config   Config
	DB       *gorm.DB
	Auth     *auth.Client
	Registry *schema.Registry
	Settings *settings.Accessor
	Pages    page.Provider
	Menus    *menu.Resolver
	Custom   *customschema.Store
	Graph    *graph.Assembler
	Logger   *log.Logger

	redis *services.RedisCache
}

// Build wires the components. Without DATABASE_URL every store lives in
// memory; without REDIS_URL menu detection is cached in process.
func Build(ctx context.Context, cfg Config, logger *log.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Registry: schema.NewRegistry()}

	var (
		settingsStore settings.Store       = settings.NewMemoryStore()
		pages         page.Provider        = page.NewMemoryProvider()
		nav           menu.Provider        = menu.NewMemoryProvider()
		storage       customschema.Storage = customschema.NewMemoryStorage()
		cache         menu.Cache           = menu.NewMemoryCache()
	)

	if cfg.DatabaseURL != "" {
		db, err := services.InitDB(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := services.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("run database migrations: %w", err)
		}
		a.DB = db
		settingsStore = services.NewSettingsStore(db)
		pages = services.NewContentStore(db, cfg.SiteURL)
		nav = services.NewNavigationStore(db)
		storage = services.NewSchemaStorage(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	if cfg.RedisURL != "" {
		rc, err := services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, caching menu detection in process", "error", err)
		} else {
			a.redis = rc
			cache = services.NewMenuCache(rc, menuCacheTTL)
		}
	}

	if cfg.FirebaseCredentials != "" {
		client, err := services.InitFirebase(ctx, cfg.FirebaseCredentials)
		if err != nil {
			logger.Warn("firebase initialization failed, admin API unavailable", "error", err)
		} else {
			a.Auth = client
		}
	}

	a.Settings = settings.New(settingsStore, cfg.SiteName, logger)
	a.Pages = pages
	a.Menus = menu.NewResolver(nav, a.Settings, cache, logger)
	a.Custom = customschema.NewStore(storage, a.Registry, logger)
	a.Graph = graph.New(graph.Config{
		Settings: a.Settings,
		Menus:    a.Menus,
		Pages:    pages,
		Custom:   a.Custom,
		Registry: a.Registry,
		SiteName: cfg.SiteName,
		SiteURL:  cfg.SiteURL,
		Logger:   logger,
	})

	// menu location settings change which menus the graph describes
	a.Settings.OnChange(func(ctx context.Context, group string) {
		if group != settings.GroupGeneral {
			return
		}
		if err := a.Menus.Invalidate(ctx); err != nil {
			logger.Warn("failed to reset menu detection", "error", err)
		}
	})
	return a, nil
}

// Close releases the database and cache connections.
func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
