package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"stockpilot/internal/config"
	"stockpilot/internal/console"
	"stockpilot/internal/infra"
	"stockpilot/internal/repository"
	"stockpilot/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:           "console",
		Short:         "StockPilot — interactive inventory console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConsole(cmd.Context(), databaseURL)
		},
	}

	root.Flags().StringVar(
		&databaseURL, "database-url", "",
		"Override the store DSN (default: $DATABASE_URL, falling back to an embedded SQLite file)",
	)

	return root
}

func runConsole(ctx context.Context, databaseURL string) error {
	// The console only logs hard failures; the menu owns stdout.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := infra.Seed(db); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(productRepo)
	salesSvc := service.NewSalesService(saleRepo, productRepo, userRepo, nil)

	return console.New(os.Stdin, os.Stdout, authSvc, inventorySvc, salesSvc, cfg).Run(ctx)
}
