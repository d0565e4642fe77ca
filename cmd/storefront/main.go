package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/storefront/internal/catalog"
	"github.com/dshills/storefront/internal/config"
	"github.com/dshills/storefront/internal/mcp"
	"github.com/dshills/storefront/internal/seed"
	"github.com/dshills/storefront/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Storefront MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(2)
	}

	// Logs go to stderr; stdout is reserved for the MCP protocol
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefront: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *zap.Logger) error {
	logger.Info("starting storefront",
		zap.String("version", version),
		zap.String("build_mode", storage.BuildMode),
		zap.String("driver", storage.DriverName),
		zap.String("db_path", cfg.DBPath))

	file, err := loadSeed(cfg)
	if err != nil {
		return err
	}

	cat, promotions, err := file.Build(catalog.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.Int("products", cat.Len()),
		zap.Int("total_stock", cat.TotalStock()),
		zap.Strings("promotions", promotions.Names()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal, err := storage.NewSQLiteJournal(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}

	srv, err := mcp.NewServer(cat, promotions, journal, logger)
	if err != nil {
		_ = journal.Close()
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// A client disconnect ends Serve without a signal; release the watcher
		defer stop()
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return nil
	})
	return g.Wait()
}

func loadSeed(cfg config.Config) (*seed.File, error) {
	if cfg.SeedFile == "" {
		return seed.Default()
	}
	file, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed file: %w", err)
	}
	return file, nil
}
