package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/feast/app/api"
	"github.com/lysyi3m/feast/app/cfg"
	"github.com/lysyi3m/feast/app/database"
	"github.com/lysyi3m/feast/app/fetcher"
	"github.com/lysyi3m/feast/app/importer"
	"github.com/lysyi3m/feast/app/logging"
	"github.com/lysyi3m/feast/app/recipe"
	"github.com/lysyi3m/feast/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// help was shown
		return
	}

	logging.Setup(appCfg.Debug)
	slog.Info("Starting feast server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	recipeRepo := database.NewRecipeRepository(db)
	mealPlanRepo := database.NewMealPlanRepository(db)

	pageFetcher := fetcher.NewFetcher(fetcher.Options{
		UserAgent:    appCfg.UserAgent,
		Timeout:      appCfg.FetchTimeoutDuration(),
		MaxRedirects: appCfg.MaxRedirects,
		MaxBytes:     appCfg.MaxBodyBytes,
	})
	parser := recipe.NewParser()
	recipeImporter := importer.NewImporter(pageFetcher, parser, recipeRepo)

	tracker := tasks.NewStatusTracker()
	scheduler := tasks.NewScheduler(appCfg.WorkerCount, appCfg.QueueSize, tracker)
	if err := scheduler.SetPruneSchedule(appCfg.PruneSchedule); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "queue_size", appCfg.QueueSize)

	handler := api.NewHandler(recipeRepo, mealPlanRepo, recipeImporter, parser, scheduler, tracker)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30*time.Second + appCfg.FetchTimeoutDuration(),
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	scheduler.Stop()
	slog.Info("Background scheduler stopped")

	slog.Info("feast server shutdown complete")
}
