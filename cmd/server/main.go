package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/commander-engine-go/internal/catalog"
	"github.com/magefree/commander-engine-go/internal/config"
	"github.com/magefree/commander-engine-go/internal/game"
	"github.com/magefree/commander-engine-go/internal/server"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting commander engine",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	store, closeStore, err := openCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to open card catalog", zap.Error(err))
	}
	defer closeStore()

	engine := game.NewEngine(logger, store, game.Options{
		StartingLife:     cfg.Game.StartingLife,
		StartingHandSize: cfg.Game.StartingHandSize,
		MaxHandSize:      cfg.Game.MaxHandSize,
	})

	wsServer := server.New(logger, engine)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      wsServer.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	wsServer.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown did not complete cleanly", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openCatalog builds the configured card-definition store. The returned
// closer is a no-op for the embedded starter set.
func openCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (catalog.Store, func(), error) {
	switch cfg.Source {
	case "postgres":
		store, err := catalog.NewPostgresStore(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "", "starter":
		return catalog.NewStarterStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
