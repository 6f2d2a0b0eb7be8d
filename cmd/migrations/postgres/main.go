package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/logging"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/migrations"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	Migrations migrations.Options `group:"migrations"`
	Logging    logging.Options    `group:"logging"`
}

func main() {
	cfg := config{Migrations: migrations.Options{Dir: "migrations/postgres"}}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := migrations.Run(ctx, cfg.Migrations, logger.Named("postgres")); err != nil {
		logger.Fatal("migration run failed", zap.Error(err))
	}
}
