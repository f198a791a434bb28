package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"schemagraph/internal/app"
	"schemagraph/internal/tasks"
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

	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", "error", err)
	}
	defer a.Close()

	// Initialize Task Registry
	registry := tasks.NewRegistry()
	tasks.DefineTasks(registry, tasks.Deps{Menus: a.Menus, Pages: a.Pages, Graph: a.Graph, Logger: logger})

	tick := func() { tasks.RunAll(ctx, registry, logger) }
	if a.DB != nil {
		runner := tasks.NewRunner(a.DB, registry, logger)
		if err := runner.Ensure(ctx, tasks.DefaultSchedules(cfg.MenuRefresh)); err != nil {
			logger.Fatal("failed to register periodic tasks", "error", err)
		}
		tick = func() {
			if _, err := runner.RunDue(ctx); err != nil {
				logger.Error("failed to run pending tasks", "error", err)
			}
		}
	}

	logger.Info("worker started", "interval", cfg.MenuRefresh, "tasks", registry.Names())

	ticker := time.NewTicker(cfg.MenuRefresh)
	defer ticker.Stop()

	// Run once immediately, then on every tick
	tick()
	for {
		select {
		case <-ticker.C:
			tick()
		case <-ctx.Done():
			logger.Info("shutting down worker")
			return
		}
	}
}
