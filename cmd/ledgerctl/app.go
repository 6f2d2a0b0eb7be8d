package main

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/logging"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/metrics"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/policy"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/repository/postgres"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/service/ledger"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
	"go.uber.org/zap"
)

// app holds the state shared by every command.
type app struct {
	ctx  context.Context
	opts globalOptions
}

type env struct {
	logger *zap.Logger
	repo   *postgres.Repository
	ledger *ledger.Service
}

func (e *env) close() {
	_ = e.repo.Close()
	_ = e.logger.Sync()
}

// open connects to postgres and builds an offline ledger service. Admin
// commands never settle, so no chain connection is made.
func (a *app) open() (*env, error) {
	logger, err := logging.New(a.opts.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pol, err := policy.Default()
	if a.opts.LevelsFile != "" {
		pol, err = policy.Load(a.opts.LevelsFile)
	}
	if err != nil {
		return nil, fmt.Errorf("load level policy: %w", err)
	}

	repo, err := postgres.NewRepository(a.opts.PostgresDSN, metrics.NewPostgresRepository())
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}
	if err := repo.Ping(a.ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	svc, err := ledger.NewService(repo, settlement.Offline{}, pol, metrics.NewLedgerService(), nil, nil, logger.Named("ledger"), ledger.Config{})
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	return &env{logger: logger, repo: repo, ledger: svc}, nil
}

// run opens the environment, calls fn and logs its failure.
func (a *app) run(fn func(ctx context.Context, e *env) error) error {
	e, err := a.open()
	if err != nil {
		return err
	}
	defer e.close()

	if err := fn(a.ctx, e); err != nil {
		e.logger.Error("command failed", zap.Error(err))
		return err
	}
	return nil
}
