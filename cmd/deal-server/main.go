package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/deal-calculator/internal/property"
	"github.com/iwvelando/deal-calculator/internal/server"
	"github.com/iwvelando/deal-calculator/pkg/constants"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"github.com/iwvelando/deal-calculator/pkg/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	envFile := flag.String("env-file", ".env", "optional dotenv file with DEALCALC_* overrides")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	envErr := godotenv.Load(*envFile)

	cfg, err := server.LoadConfig(*configLocation)
	if err == nil {
		err = cfg.ApplyEnv()
	}
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("failed to load env file",
			zap.String("op", "main"),
			zap.String("path", *envFile),
			zap.Error(envErr),
		)
	}

	assumptions, err := cfg.Assumptions.ToAssumptions()
	if err != nil {
		logger.Fatal("invalid assumptions",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg, assumptions); err != nil {
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg *server.Config, assumptions dealcalc.Assumptions) error {
	calc, err := dealcalc.NewCalculator(logger, assumptions)
	if err != nil {
		return fmt.Errorf("failed to configure calculator: %w", err)
	}

	store, err := cfg.OpenStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store",
				zap.String("op", "main.run"),
				zap.Error(err),
			)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, calc, property.NewService(logger, store, calc), cfg.BodySizeBytes(), version),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main.run"),
			zap.String("address", cfg.Address),
			zap.String("store", cfg.Store.Backend),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		zap.String("op", "main.run"),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
