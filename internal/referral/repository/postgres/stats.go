package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/shopspring/decimal"
)

// AccountStats summarises team size and reward income of an account.
func (s *Store) AccountStats(ctx context.Context, accountID uint64, since time.Time) (model.Stats, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("account_stats", err, start)
	}()

	var team, joined int64
	if err = s.db.WithContext(ctx).Model(&model.AncestorEdge{}).Where("ancestor_id = ?", accountID).Count(&team).Error; err != nil {
		return model.Stats{}, fmt.Errorf("count team: %w", err)
	}
	if err = s.db.WithContext(ctx).Model(&model.AncestorEdge{}).
		Where("ancestor_id = ? AND created_at >= ?", accountID, since.UTC()).
		Count(&joined).Error; err != nil {
		return model.Stats{}, fmt.Errorf("count new members: %w", err)
	}

	var rewards []model.LedgerEntry
	if err = s.db.WithContext(ctx).
		Select("amount", "created_at").
		Where("account_id = ? AND type = ? AND status = ?", accountID, model.EntryReward, model.StatusConfirmed).
		Find(&rewards).Error; err != nil {
		return model.Stats{}, fmt.Errorf("query rewards: %w", err)
	}

	stats := model.Stats{
		TeamSize:       int(team),
		NewMembers:     int(joined),
		TotalEarnings:  decimal.Zero,
		PeriodEarnings: decimal.Zero,
	}
	for _, r := range rewards {
		stats.TotalEarnings = stats.TotalEarnings.Add(r.Amount)
		if !r.CreatedAt.Before(since) {
			stats.PeriodEarnings = stats.PeriodEarnings.Add(r.Amount)
		}
	}
	return stats, nil
}
