// Package main loads kitchen fixtures into the configured database
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/homemadefood/backoffice/internal/application/seed"
	"github.com/homemadefood/backoffice/internal/infrastructure/config"
	"github.com/homemadefood/backoffice/internal/infrastructure/container"
	"github.com/homemadefood/backoffice/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	fixturesPath := flag.String("fixtures", "fixtures/kitchen.yaml", "path to the YAML fixtures")
	flag.Parse()

	if err := run(*configPath, *fixturesPath); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, fixturesPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, _ := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console"})
	defer func() { _ = log.Sync() }()

	fixtures, err := seed.LoadFile(fixturesPath)
	if err != nil {
		return err
	}

	var seeder *seed.Seeder
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg, log),
		container.Domain,
		fx.Provide(seed.NewSeeder),
		fx.Populate(&seeder),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Warn("Failed to stop cleanly", zap.Error(err))
		}
	}()

	summary, err := seeder.Apply(ctx, fixtures)
	if err != nil {
		return err
	}
	fmt.Printf("added %d food categories, %d recipes, %d daily menus (%d already present)\n",
		summary.FoodCategories, summary.Recipes, summary.DailyMenus, summary.Skipped)
	return nil
}
