package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/shopspring/decimal"
)

// EarningsByLevel sums confirmed rewards credited to accountID since the given
// time, one row per level. A zero since covers the whole history.
func (r *Repository) EarningsByLevel(ctx context.Context, accountID uint64, since time.Time) ([]model.LevelEarnings, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("earnings_by_level", err, start)
	}()

	const query = `
SELECT level, sum(amount) AS total, count() AS rewards
FROM ledger_entries FINAL
WHERE account_id = ? AND type = ? AND status = ? AND created_at >= ?
GROUP BY level
ORDER BY level`

	if since.IsZero() {
		since = time.Unix(0, 0)
	}

	rows, err := r.conn.Query(ctx, query, accountID, string(model.EntryReward), string(model.StatusConfirmed), since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query earnings by level: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	var out []model.LevelEarnings
	for rows.Next() {
		var (
			level   uint8
			total   decimal.Decimal
			rewards uint64
		)
		if err = rows.Scan(&level, &total, &rewards); err != nil {
			return nil, fmt.Errorf("scan earnings row: %w", err)
		}
		out = append(out, model.LevelEarnings{Level: int(level), Total: total, Rewards: rewards})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate earnings rows: %w", err)
	}
	return out, nil
}
