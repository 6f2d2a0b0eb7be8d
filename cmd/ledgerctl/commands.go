package main

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/metrics"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/repository/clickhouse"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/service/reporting"
	"go.uber.org/zap"
)

type seedLevelsCommand struct {
	app *app
}

func (c *seedLevelsCommand) Execute([]string) error {
	return c.app.run(func(ctx context.Context, e *env) error {
		inserted, err := e.ledger.SeedLevels(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d level(s)\n", inserted)
		return nil
	})
}

type ensureRootCommand struct {
	app    *app
	Wallet string `long:"wallet" description:"root wallet address" required:"true"`
}

func (c *ensureRootCommand) Execute([]string) error {
	wallet, err := model.ParseWallet(c.Wallet)
	if err != nil {
		return err
	}
	return c.app.run(func(ctx context.Context, e *env) error {
		account, created, err := e.ledger.EnsureRoot(ctx, wallet)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("created root %s (id %d)\n", account.Wallet, account.ID)
		} else {
			fmt.Printf("root %s already exists (id %d)\n", account.Wallet, account.ID)
		}
		return nil
	})
}

type setCompanyCommand struct {
	app    *app
	Wallet string `long:"wallet" description:"company wallet address" required:"true"`
	// Root creates the company as a root account first.
	Root bool `long:"root" description:"create the wallet as a root account when missing"`
}

func (c *setCompanyCommand) Execute([]string) error {
	wallet, err := model.ParseWallet(c.Wallet)
	if err != nil {
		return err
	}
	return c.app.run(func(ctx context.Context, e *env) error {
		if c.Root {
			if _, _, err := e.ledger.EnsureRoot(ctx, wallet); err != nil {
				return err
			}
		}
		if err := e.ledger.SetCompanyWallet(ctx, wallet); err != nil {
			return err
		}
		fmt.Printf("company wallet set to %s\n", wallet)
		return nil
	})
}

type mirrorBackfillCommand struct {
	app           *app
	ClickhouseDSN string `long:"clickhouse-dsn" env:"LEDGERCTL_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	PageSize      int    `long:"page-size" description:"entries read per page" default:"1000"`
	Workers       int    `long:"workers" description:"concurrent page copies" default:"4"`
}

func (c *mirrorBackfillCommand) Execute([]string) error {
	return c.app.run(func(ctx context.Context, e *env) error {
		chRepo, err := clickhouse.NewRepository(c.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init reporting repository: %w", err)
		}
		defer func() {
			_ = chRepo.Close()
		}()

		backfill, err := reporting.NewBackfill(e.repo.Snapshot(), chRepo, metrics.NewReportingMirror(), e.logger.Named("backfill"), reporting.BackfillConfig{
			PageSize: c.PageSize,
			Workers:  c.Workers,
		})
		if err != nil {
			return err
		}
		copied, err := backfill.Run(ctx)
		if err != nil {
			return err
		}
		e.logger.Info("mirror backfill finished", zap.Int64("entries", copied))
		return nil
	})
}
