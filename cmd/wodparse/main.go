package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/wodparse/internal/config"
	"github.com/meltforce/wodparse/internal/parser"
	"github.com/meltforce/wodparse/internal/server"
	"github.com/meltforce/wodparse/internal/storage"
	"github.com/meltforce/wodparse/internal/vocabulary"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	seed := flag.Bool("seed-movements", false, "load the movement catalog into the database and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("wodparse starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	catalog, err := loadCatalog(cfg.Vocabulary.CatalogPath)
	if err != nil {
		log.Error("failed to load movement catalog", "error", err)
		os.Exit(1)
	}
	log.Info("movement catalog loaded", "movements", catalog.Len())

	ctx := context.Background()

	// Database is optional; without it parses are not persisted.
	var (
		db    *storage.DB
		store server.Store
	)
	if cfg.Database.Enabled() {
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

		db, err = storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
		log.Info("database connected")

		if *seed {
			n, err := db.SeedMovements(ctx, catalog.MovementRows())
			if err != nil {
				log.Error("seeding movements failed", "error", err)
				os.Exit(1)
			}
			log.Info("movements seeded", "count", n)
			return
		}
	} else if *migrateOnly || *seed {
		log.Error("database is not configured")
		os.Exit(1)
	}

	var base parser.Vocabulary = catalog
	if cfg.Vocabulary.Source == config.VocabularyDatabase {
		base = db.Vocabulary()
		log.Info("using database vocabulary")
	}
	vocab, err := vocabulary.NewCached(base, cfg.Vocabulary.CacheSize)
	if err != nil {
		log.Error("failed to create vocabulary cache", "error", err)
		os.Exit(1)
	}

	p, err := parser.New(vocab, log)
	if err != nil {
		log.Error("failed to create parser", "error", err)
		os.Exit(1)
	}

	srv := server.New(p, vocab, store, cfg.Auth.APIKey, cfg.Parser.MaxInputBytes, log)

	// Start server: tsnet or plain HTTP
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

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

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
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func loadCatalog(path string) (*vocabulary.Catalog, error) {
	if path == "" {
		return vocabulary.Default()
	}
	return vocabulary.Load(path)
}
