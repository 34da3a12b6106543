package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aevon-lab/calendar-engine/internal/calendar"
	corecfg "github.com/aevon-lab/calendar-engine/internal/core/config"
	"github.com/aevon-lab/calendar-engine/internal/core/storage"
	"github.com/aevon-lab/calendar-engine/internal/core/storage/file"
	"github.com/aevon-lab/calendar-engine/internal/core/storage/memory"
	"github.com/aevon-lab/calendar-engine/internal/core/storage/postgres"
	"github.com/aevon-lab/calendar-engine/internal/events"
	"github.com/aevon-lab/calendar-engine/internal/export"
	"github.com/aevon-lab/calendar-engine/internal/migrations"
	"github.com/aevon-lab/calendar-engine/internal/reports"
	"github.com/aevon-lab/calendar-engine/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "calendard.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger (level is raised once config is loaded)
	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// 1. Load Configuration (.env first so CALENDAR_* overrides can live there)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	path := *configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Info("Config file not found, using defaults and environment", "path", path)
		path = ""
	}

	cfg, err := corecfg.Load(path)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())
	slog.Info("Loaded config", "config", cfg)

	loc, err := cfg.Calendar.Location()
	if err != nil {
		slog.Error("Invalid timezone", "timezone", cfg.Calendar.Timezone, "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage
	repo, closeRepo, err := openRepository(cfg.Storage, loc)
	if err != nil {
		slog.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Calendar dates are wall-clock dates in loc, not in the host zone.
	clock := func() time.Time { return time.Now().In(loc) }

	// 3. Load the calendar. Unreadable stored data starts an empty calendar.
	store, err := calendar.Open(ctx, repo, calendar.Options{
		HorizonMonths:  cfg.Calendar.HorizonMonths,
		ConflictWindow: cfg.Calendar.Window(),
		CacheCapacity:  cfg.Calendar.CacheCapacity,
		MaxOccurrences: cfg.Calendar.MaxOccurrences,
		Now:            clock,
	})
	if errors.Is(err, storage.ErrMalformed) {
		slog.Warn("Stored events are malformed, starting with an empty calendar", "error", err)
	} else if err != nil {
		slog.Error("Failed to load events", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Services
	exporter := export.New(export.Options{
		UIDDomain: cfg.Export.UIDDomain,
		ProductID: cfg.Export.ProductID,
		Now:       clock,
	})
	eventsSvc := events.NewService(store, loc, cfg.Server.MaxBodySizeMB)
	reportsSvc := reports.NewService(store, exporter, reports.Options{
		WeekStart: cfg.Calendar.FirstWeekday(),
		Now:       clock,
		Location:  loc,
	})

	// 5. Initialize Server
	srv := server.New(cfg.Server.Addr(), store, cfg.Server.Mode)
	srv.Register(eventsSvc, reportsSvc)

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// openRepository builds the repository selected by cfg.Type. The returned
// close function releases it.
func openRepository(cfg corecfg.StorageConfig, loc *time.Location) (storage.Repository, func(), error) {
	switch cfg.Type {
	case "memory":
		slog.Info("Using in-memory storage; events are lost on exit")
		return memory.NewRepository(), func() {}, nil

	case "file":
		slog.Info("Using file storage", "path", cfg.Path)
		return file.NewOSRepository(cfg.Path), func() {}, nil

	case "postgres":
		db, err := postgres.Open(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Run(db, cfg.AutoMigrate); err != nil {
			db.Close()
			return nil, nil, err
		}
		adapter, err := postgres.NewAdapter(db, loc)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return adapter, func() {
			if err := adapter.Close(); err != nil {
				slog.Error("Failed to close database", "error", err)
			}
		}, nil
	}
	return nil, nil, errors.New("unsupported storage type " + cfg.Type)
}
