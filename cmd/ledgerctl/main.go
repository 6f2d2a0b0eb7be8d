package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/logging"
	"github.com/jessevdk/go-flags"
)

type globalOptions struct {
	PostgresDSN string          `long:"postgres-dsn" env:"LEDGERCTL_POSTGRES_DSN" description:"PostgreSQL DSN" required:"true"`
	LevelsFile  string          `long:"levels-file" env:"LEDGERCTL_LEVELS_FILE" description:"YAML level policy overriding the embedded one"`
	Logging     logging.Options `group:"logging"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{ctx: ctx}
	parser := flags.NewParser(&a.opts, flags.Default)
	mustAdd(parser.AddCommand("seed-levels", "Seed level definitions",
		"Inserts the level policy into level_definitions. Existing levels are kept.", &seedLevelsCommand{app: a}))
	mustAdd(parser.AddCommand("ensure-root", "Create a root account",
		"Creates a registered top level account without a referrer.", &ensureRootCommand{app: a}))
	mustAdd(parser.AddCommand("set-company", "Set the company wallet",
		"Points the company_wallet setting at an existing account.", &setCompanyCommand{app: a}))
	mustAdd(parser.AddCommand("mirror-backfill", "Copy confirmed entries to ClickHouse",
		"Copies every confirmed ledger entry into the reporting store.", &mirrorBackfillCommand{app: a}))

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(fmt.Sprintf("register command: %v", err))
	}
}
