package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	liftplan "github.com/liftlab/liftplan"
	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/config"
	"github.com/liftlab/liftplan/internal/engine/materialize"
	assignor "github.com/liftlab/liftplan/internal/engine/protocols"
	"github.com/liftlab/liftplan/internal/engine/selector"
	"github.com/liftlab/liftplan/internal/engine/substitute"
	"github.com/liftlab/liftplan/internal/engine/superset"
	"github.com/liftlab/liftplan/internal/memstore"
	"github.com/liftlab/liftplan/internal/planner"
	"github.com/liftlab/liftplan/internal/prefs"
	"github.com/liftlab/liftplan/internal/server"
	"github.com/liftlab/liftplan/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("LiftPlan starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Load catalogs (config paths override the embedded seed data)
	exercises, protocols, err := loadCatalogs(cfg)
	if err != nil {
		log.Error("failed to load catalogs", "error", err)
		os.Exit(1)
	}
	log.Info("catalogs loaded",
		"exercises", len(exercises.Exercises()),
		"protocols", len(protocols.Protocols()))

	// Durable store is optional: without it, sessions live in memory only.
	var saver planner.Saver
	if cfg.Database.Enabled {
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		ctx := context.Background()
		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")
		saver = db
	} else if *migrateOnly {
		log.Error("migrate-only requires database.enabled")
		os.Exit(1)
	}

	// Local preference store
	prefsDir := cfg.Prefs.Dir
	if prefsDir == "" {
		prefsDir = "data"
	}
	prefsDB, err := prefs.Open(prefsDir)
	if err != nil {
		log.Error("failed to open prefs db", "error", err)
		os.Exit(1)
	}
	defer prefsDB.Close()

	// Wire the engine
	store := memstore.New()
	estimator := materialize.NewEstimator(exercises, store)
	pl := planner.New(
		exercises, protocols,
		selector.New(exercises, log),
		assignor.New(protocols, nil, log),
		superset.New(log),
		materialize.New(protocols, estimator, nil, log),
		store, saver, log,
	)
	scorer := substitute.NewScorer(exercises, log)
	sub := substitute.NewSubstituter(exercises, protocols, store, prefsDB, log)

	srv := server.New(pl, scorer, sub, store, exercises, protocols, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpServer := &http.Server{Handler: srv}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

// loadCatalogs resolves the catalog sources: explicit file paths from
// config when present, the embedded seed data otherwise.
func loadCatalogs(cfg *config.Config) (*catalog.Exercises, *catalog.Protocols, error) {
	var exFS fs.FS = liftplan.SeedFS
	exPath := "seed/exercises.yaml"
	if cfg.Catalog.ExercisesPath != "" {
		exFS = os.DirFS(".")
		exPath = cfg.Catalog.ExercisesPath
	}
	exercises, err := catalog.LoadExercises(exFS, exPath)
	if err != nil {
		return nil, nil, err
	}

	var protoFS fs.FS = liftplan.SeedFS
	protoPath := "seed/protocols.yaml"
	if cfg.Catalog.ProtocolsPath != "" {
		protoFS = os.DirFS(".")
		protoPath = cfg.Catalog.ProtocolsPath
	}
	protocols, err := catalog.LoadProtocols(protoFS, protoPath)
	if err != nil {
		return nil, nil, err
	}
	return exercises, protocols, nil
}
