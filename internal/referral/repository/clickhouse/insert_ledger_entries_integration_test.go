package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
)

func (s *RepositorySuite) TestInsertLedgerEntries() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	entries := []model.LedgerEntry{
		newEntry(1, model.EntryRegistration, 115, 1, model.StatusConfirmed, now),
		newEntry(2, model.EntryReward, 100, 1, model.StatusConfirmed, now),
	}
	entries[1].CounterpartyID, entries[1].CounterpartyWallet, entries[1].ExternalTransactionID = nil, nil, nil

	s.metrics.EXPECT().Observe("insert_ledger_entries", gomock.Nil(), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertLedgerEntries(s.testCtx, entries))
	s.Equal(uint64(len(entries)), s.countRows("ledger_entries"))
}

func (s *RepositorySuite) TestInsertLedgerEntriesReplayIsDeduplicated() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	entries := []model.LedgerEntry{
		newEntry(1, model.EntryReward, 120, 2, model.StatusConfirmed, now),
	}

	s.metrics.EXPECT().Observe("insert_ledger_entries", gomock.Nil(), gomock.Any()).Times(2)

	s.Require().NoError(s.repo.InsertLedgerEntries(s.testCtx, entries))
	s.Require().NoError(s.repo.InsertLedgerEntries(s.testCtx, entries))
	s.Equal(uint64(1), s.countRows("ledger_entries"))
}

func (s *RepositorySuite) TestInsertLedgerEntriesRejectsLevelOverflow() {
	entry := newEntry(1, model.EntryReward, 1, 300, model.StatusConfirmed, time.Now())

	s.metrics.EXPECT().Observe("insert_ledger_entries", gomock.Not(gomock.Nil()), gomock.Any()).Times(1)

	s.Require().Error(s.repo.InsertLedgerEntries(s.testCtx, []model.LedgerEntry{entry}))
}
