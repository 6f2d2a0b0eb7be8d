package reporting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/pkg/workerpool"
	"go.uber.org/zap"
)

type BackfillConfig struct {
	PageSize int
	Workers  int
}

// Backfill copies every confirmed ledger entry into the reporting store.
// Rows are deduplicated downstream, so a backfill may run at any time.
type Backfill struct {
	source   Source
	writer   Writer
	metrics  Metrics
	logger   *zap.Logger
	pageSize int
	workers  int
}

func NewBackfill(source Source, writer Writer, metrics Metrics, logger *zap.Logger, cfg BackfillConfig) (*Backfill, error) {
	if source == nil {
		return nil, errors.New("backfill source is required")
	}
	if writer == nil {
		return nil, errors.New("reporting writer is required")
	}
	if metrics == nil {
		return nil, errors.New("reporting metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultBackfillPageSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultBackfillWorkers
	}
	return &Backfill{
		source:   source,
		writer:   writer,
		metrics:  metrics,
		logger:   logger,
		pageSize: cfg.PageSize,
		workers:  cfg.Workers,
	}, nil
}

// Run copies all pages and returns the number of entries written.
func (b *Backfill) Run(ctx context.Context) (int64, error) {
	total, err := b.source.CountConfirmedEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("count confirmed entries: %w", err)
	}
	if total == 0 {
		b.logger.Info("nothing to backfill")
		return 0, nil
	}

	offsets := workerpool.Offsets(total, b.pageSize)

	var copied atomic.Int64
	err = workerpool.Process(ctx, b.workers, offsets, func(ctx context.Context, offset int) error {
		n, err := b.copyPage(ctx, offset)
		if err != nil {
			return err
		}
		copied.Add(int64(n))
		return nil
	})
	if err != nil {
		b.logger.Warn("backfill stopped", zap.Int64("copied", copied.Load()), zap.Error(err))
		return copied.Load(), err
	}
	b.logger.Info("backfill finished",
		zap.Int64("total", total),
		zap.Int64("copied", copied.Load()),
		zap.Int("pages", len(offsets)),
	)
	return copied.Load(), nil
}

func (b *Backfill) copyPage(ctx context.Context, offset int) (n int, err error) {
	started := time.Now()
	defer func() {
		b.metrics.ObserveBackfillPage(err, started)
	}()

	entries, err := b.source.ConfirmedEntries(ctx, offset, b.pageSize)
	if err != nil {
		return 0, fmt.Errorf("read page at offset %d: %w", offset, err)
	}
	if err = b.writer.InsertLedgerEntries(ctx, entries); err != nil {
		return 0, fmt.Errorf("write page at offset %d: %w", offset, err)
	}
	return len(entries), nil
}
