package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/shopspring/decimal"
)

func (s *RepositorySuite) TestEarningsByLevel() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	old := now.Add(-48 * time.Hour)
	entries := []model.LedgerEntry{
		newEntry(7, model.EntryReward, 100, 1, model.StatusConfirmed, now),
		newEntry(7, model.EntryReward, 100, 1, model.StatusConfirmed, now),
		newEntry(7, model.EntryReward, 120, 2, model.StatusConfirmed, now),
		newEntry(7, model.EntryReward, 160, 3, model.StatusConfirmed, old),
		newEntry(7, model.EntryReward, 50, 2, model.StatusPending, now),
		newEntry(7, model.EntryUpgrade, 150, 2, model.StatusConfirmed, now),
		newEntry(8, model.EntryReward, 100, 1, model.StatusConfirmed, now),
	}

	s.metrics.EXPECT().Observe("insert_ledger_entries", gomock.Nil(), gomock.Any()).Times(1)
	s.metrics.EXPECT().Observe("earnings_by_level", gomock.Nil(), gomock.Any()).Times(2)

	s.Require().NoError(s.repo.InsertLedgerEntries(s.testCtx, entries))

	got, err := s.repo.EarningsByLevel(s.testCtx, 7, now.Add(-time.Hour))
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(1, got[0].Level)
	s.True(got[0].Total.Equal(decimal.NewFromInt(200)), "level 1 total = %s", got[0].Total)
	s.Equal(uint64(2), got[0].Rewards)
	s.Equal(2, got[1].Level)
	s.True(got[1].Total.Equal(decimal.NewFromInt(120)), "level 2 total = %s", got[1].Total)

	all, err := s.repo.EarningsByLevel(s.testCtx, 7, time.Time{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(3, all[2].Level)
}
