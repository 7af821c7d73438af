// Package main runs the HomeMadeFood back office server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/container"
	"github.com/homemadefood/backoffice/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	changes := make(chan *config.Config, 1)
	failures := make(chan error, 1)
	cfg, err := config.LoadAndWatch(*configPath,
		func(next *config.Config) { replace(changes, next) },
		func(err error) { replace(failures, err) },
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, level := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go watchConfig(ctx, log, level, changes, failures)

	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		container.Module,
		fx.StartTimeout(cfg.Server.ShutdownTimeout),
		fx.StopTimeout(cfg.Server.ShutdownTimeout),
	)

	if err := app.Start(ctx); err != nil {
		log.Fatal("Failed to start application", zap.Error(err))
	}

	var exitCode int
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		exitCode = 1
	}

	log.Info("Application stopped")
	if exitCode != 0 {
		_ = log.Sync()
		os.Exit(exitCode)
	}
}

// watchConfig applies the log level of every valid config revision. Other
// settings need a restart.
func watchConfig(ctx context.Context, log *zap.Logger, level zap.AtomicLevel, changes <-chan *config.Config, failures <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case next := <-changes:
			newLevel := logger.ParseLevel(next.App.LogLevel)
			if newLevel != level.Level() {
				log.Info("Log level changed", zap.Stringer("from", level.Level()), zap.Stringer("to", newLevel))
				level.SetLevel(newLevel)
			}
		case err := <-failures:
			log.Warn("Ignoring configuration change", zap.Error(err))
		}
	}
}

// replace keeps only the latest value in a buffered channel of size one
func replace[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
