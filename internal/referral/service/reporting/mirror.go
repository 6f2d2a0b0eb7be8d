// Package reporting copies confirmed ledger entries into the reporting store.
package reporting

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/pkg/batcher"
	"go.uber.org/zap"
)

type MirrorConfig struct {
	FlushSize     int
	FlushInterval time.Duration
	FlushRPS      int
}

// Mirror buffers published entries and writes them to the reporting store in
// batches. The authoritative ledger never waits on it.
type Mirror struct {
	writer  Writer
	metrics Metrics
	logger  *zap.Logger
	batcher *batcher.Batcher[model.LedgerEntry]
}

func NewMirror(writer Writer, metrics Metrics, logger *zap.Logger, cfg MirrorConfig) (*Mirror, error) {
	if writer == nil {
		return nil, errors.New("reporting writer is required")
	}
	if metrics == nil {
		return nil, errors.New("reporting metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = defaultFlushSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	if cfg.FlushRPS <= 0 {
		cfg.FlushRPS = defaultFlushRPS
	}

	m := &Mirror{
		writer:  writer,
		metrics: metrics,
		logger:  logger,
	}
	m.batcher = batcher.New[model.LedgerEntry](
		logger.Named("entryBatcher"),
		m.flush,
		batcher.Config{Size: cfg.FlushSize, Interval: cfg.FlushInterval, RPS: cfg.FlushRPS},
	)
	return m, nil
}

func (m *Mirror) Start(ctx context.Context) {
	m.batcher.Start(ctx)
}

// Stop flushes buffered entries and waits for the writer.
func (m *Mirror) Stop() {
	m.batcher.Stop()
}

// Publish queues entries for the next batch. Entries that cannot be queued
// are dropped with a warning and are picked up again by a backfill.
func (m *Mirror) Publish(ctx context.Context, entries []model.LedgerEntry) {
	for i, e := range entries {
		if e.Status != model.StatusConfirmed {
			continue
		}
		if err := m.batcher.Add(ctx, e); err != nil {
			m.logger.Warn("ledger entries not mirrored",
				zap.Int("dropped", len(entries)-i),
				zap.Error(err),
			)
			return
		}
	}
}

func (m *Mirror) flush(ctx context.Context, entries []model.LedgerEntry) (err error) {
	started := time.Now()
	defer func() {
		m.metrics.ObserveFlush(err, len(entries), started)
	}()

	return m.writer.InsertLedgerEntries(ctx, entries)
}
