package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/breakdesk/internal/cli"
	"github.com/alexanderramin/breakdesk/internal/config"
	"github.com/alexanderramin/breakdesk/internal/db"
	"github.com/alexanderramin/breakdesk/internal/httpapi"
	"github.com/alexanderramin/breakdesk/internal/repository"
	"github.com/alexanderramin/breakdesk/internal/service"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment and defaults still apply.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	typeRepo := repository.NewSQLiteBreakTypeRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var opts []service.Option
	if cfg.LogUseCases {
		opts = append(opts, service.WithObserver(service.NewSlogUseCaseObserver(logger)))
	}

	// Wire services
	breaks := service.NewBreakService(sessionRepo, uow, opts...)
	history := service.NewHistoryService(sessionRepo, opts...)
	catalog := service.NewCatalogService(userRepo, typeRepo, uow, opts...)

	app := &cli.App{
		Breaks:  breaks,
		History: history,
		Catalog: catalog,
		HTTP: httpapi.NewServer(breaks, history, catalog,
			httpapi.WithLogger(logger),
			httpapi.WithRequestTimeout(cfg.RequestTimeout()),
			httpapi.WithDB(database),
		),
		Addr: cfg.Addr,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
