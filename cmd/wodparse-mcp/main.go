package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/wodparse/internal/config"
	"github.com/meltforce/wodparse/internal/mcp"
	"github.com/meltforce/wodparse/internal/parser"
	"github.com/meltforce/wodparse/internal/storage"
	"github.com/meltforce/wodparse/internal/vocabulary"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local mode)")
	serverURL := flag.String("server", "", "wodparse server URL; when set, tools call the REST API instead of parsing locally")
	apiKey := flag.String("api-key", os.Getenv("WODPARSE_API_KEY"), "API key for -server")
	httpAddr := flag.String("http", "", "serve streamable HTTP on this address instead of stdio")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("wodparse-mcp", Version)
		return
	}

	// stdout carries the stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		ds       mcp.DataSource
		maxInput = config.DefaultMaxInputBytes
	)
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(strings.TrimRight(*serverURL, "/"), *apiKey)
		log.Info("remote mode", "server", *serverURL)
	} else {
		local, limit, cleanup, err := newLocal(*configPath, log)
		if err != nil {
			log.Error("failed to set up local parser", "error", err)
			os.Exit(1)
		}
		defer cleanup()
		ds, maxInput = local, limit
	}

	s := mcp.New(ds, Version, maxInput, log)

	if *httpAddr != "" {
		log.Info("serving MCP over HTTP", "addr", *httpAddr)
		if err := server.NewStreamableHTTPServer(s).Start(*httpAddr); err != nil {
			log.Error("mcp http server error", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp stdio server error", "error", err)
		os.Exit(1)
	}
}

// newLocal builds an in-process data source. Without a config file it runs on
// the embedded catalog with no persistence.
func newLocal(configPath string, log *slog.Logger) (*mcp.Local, int, func(), error) {
	noop := func() {}

	if configPath == "" {
		catalog, err := vocabulary.Default()
		if err != nil {
			return nil, 0, noop, err
		}
		p, err := parser.New(catalog, log)
		if err != nil {
			return nil, 0, noop, err
		}
		return mcp.NewLocal(p, catalog, nil), config.DefaultMaxInputBytes, noop, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, 0, noop, fmt.Errorf("loading config: %w", err)
	}

	var catalog *vocabulary.Catalog
	if cfg.Vocabulary.CatalogPath != "" {
		catalog, err = vocabulary.Load(cfg.Vocabulary.CatalogPath)
	} else {
		catalog, err = vocabulary.Default()
	}
	if err != nil {
		return nil, 0, noop, err
	}

	var (
		base  parser.Vocabulary = catalog
		store mcp.Store
	)
	cleanup := noop
	if cfg.Database.Enabled() {
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			return nil, 0, noop, fmt.Errorf("connecting database: %w", err)
		}
		cleanup = db.Close
		store = db
		if cfg.Vocabulary.Source == config.VocabularyDatabase {
			base = db.Vocabulary()
		}
	}

	vocab, err := vocabulary.NewCached(base, cfg.Vocabulary.CacheSize)
	if err != nil {
		cleanup()
		return nil, 0, noop, err
	}
	p, err := parser.New(vocab, log)
	if err != nil {
		cleanup()
		return nil, 0, noop, err
	}
	return mcp.NewLocal(p, vocab, store), cfg.Parser.MaxInputBytes, cleanup, nil
}
