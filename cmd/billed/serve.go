package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/billed/internal/backend"
	"github.com/zombor/billed/internal/fixtures"
)

func newServeCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("serve").SetParent(parent)
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "billed.db", "Database file path")
		storagePath = fs.StringLong("storage", "./receipts", "Receipt storage directory path")
		publicURL   = fs.StringLong("public-url", "", "Public base URL of receipt files (default http://localhost:<port>)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		seed        = fs.BoolLong("seed", "Load the sample bills into the database")
	)

	return &ff.Command{
		Name:      "serve",
		Usage:     "billed serve [FLAGS]",
		ShortHelp: "run the bill store",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			return serve(ctx, serveConfig{
				port:        *port,
				dbPath:      *dbPath,
				storagePath: *storagePath,
				publicURL:   *publicURL,
				auth:        backend.BasicAuth{Username: *authUser, Password: *authPass},
				seed:        *seed,
			})
		},
	}
}

type serveConfig struct {
	port        int
	dbPath      string
	storagePath string
	publicURL   string
	auth        backend.BasicAuth
	seed        bool
}

func serve(ctx context.Context, cfg serveConfig) error {
	// Initialize database
	slog.Info("Initializing database...", "path", cfg.dbPath)
	db, err := backend.NewBoltDB(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	// Initialize storage
	slog.Info("Initializing storage...", "path", cfg.storagePath)
	storage, err := backend.NewLocalStorage(cfg.storagePath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	publicURL := cfg.publicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://localhost:%d", cfg.port)
	}
	service := backend.NewService(db, storage, publicURL)

	if cfg.seed {
		if err := service.Seed(fixtures.Bills()); err != nil {
			return fmt.Errorf("seeding bills: %w", err)
		}
		slog.Info("Sample bills loaded", "count", len(fixtures.Bills()))
	}

	server := backend.NewServer(service, cfg.auth)

	addr := fmt.Sprintf(":%d", cfg.port)
	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if cfg.auth.Username != "" || cfg.auth.Password != "" {
		slog.Info("Basic auth enabled", "user", cfg.auth.Username)
	}

	if err := server.Start(ctx, addr); err != nil {
		return fmt.Errorf("running server: %w", err)
	}

	slog.Info("Shutting down...")
	return nil
}
