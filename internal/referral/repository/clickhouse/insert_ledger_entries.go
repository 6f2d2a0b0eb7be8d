package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/pkg/safe"
)

// InsertLedgerEntries stores ledger entry rows in ClickHouse. Rows are
// deduplicated by id, so replaying a batch is harmless.
func (r *Repository) InsertLedgerEntries(ctx context.Context, entries []model.LedgerEntry) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_ledger_entries", err, start)
	}()

	if len(entries) == 0 {
		return nil
	}

	const query = `
INSERT INTO ledger_entries (
	id,
	account_id,
	account_wallet,
	type,
	amount,
	level,
	counterparty_id,
	counterparty_wallet,
	external_transaction_id,
	status,
	created_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare ledger entries batch: %w", err)
	}

	for _, e := range entries {
		var level uint8
		level, err = safe.Uint8(e.Level)
		if err != nil {
			return fmt.Errorf("entry %s level: %w", e.ID, err)
		}
		if err = batch.Append(
			e.ID,
			e.AccountID,
			e.AccountWallet.String(),
			string(e.Type),
			e.Amount,
			level,
			e.CounterpartyID,
			walletPtr(e.CounterpartyWallet),
			e.ExternalTransactionID,
			string(e.Status),
			e.CreatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert ledger entries: %w", err)
	}
	return nil
}

func walletPtr(w *model.Wallet) *string {
	if w == nil {
		return nil
	}
	s := w.String()
	return &s
}
