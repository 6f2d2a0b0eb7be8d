package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"gorm.io/gorm"
)

// Settlement returns the operation bound to an external transaction id, or nil.
func (s *Store) Settlement(ctx context.Context, externalID string) (*model.Settlement, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("settlement", err, start)
	}()

	var rows []model.Settlement
	err = s.db.WithContext(ctx).Where("external_transaction_id = ?", externalID).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query settlement: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// InsertSettlement claims an external transaction id. A second claim fails with ErrExternalIDReused.
func (s *Store) InsertSettlement(ctx context.Context, settlement *model.Settlement) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("insert_settlement", err, start)
	}()

	err = s.db.WithContext(ctx).Create(settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrExternalIDReused
		}
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

func (s *Store) InsertLedgerEntries(ctx context.Context, entries []model.LedgerEntry) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("insert_ledger_entries", err, start)
	}()

	if len(entries) == 0 {
		return nil
	}
	if err = s.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return fmt.Errorf("insert ledger entries: %w", err)
	}
	return nil
}

func (s *Store) LedgerEntriesByExternalID(ctx context.Context, externalID string) ([]model.LedgerEntry, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("ledger_entries_by_external_id", err, start)
	}()

	var entries []model.LedgerEntry
	err = s.db.WithContext(ctx).
		Where("external_transaction_id = ?", externalID).
		Order("created_at").Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query ledger entries by external id: %w", err)
	}
	return entries, nil
}

// LedgerEntriesByAccount lists entries the account owns or is the counterparty of, newest first.
func (s *Store) LedgerEntriesByAccount(ctx context.Context, accountID uint64, limit int) ([]model.LedgerEntry, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("ledger_entries_by_account", err, start)
	}()

	q := s.db.WithContext(ctx).
		Where("account_id = ? OR counterparty_id = ?", accountID, accountID).
		Order("created_at DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var entries []model.LedgerEntry
	if err = q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("query ledger entries by account: %w", err)
	}
	return entries, nil
}

func (s *Store) CountConfirmedEntries(ctx context.Context) (int64, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("count_confirmed_entries", err, start)
	}()

	var n int64
	err = s.db.WithContext(ctx).Model(&model.LedgerEntry{}).Where("status = ?", model.StatusConfirmed).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count confirmed entries: %w", err)
	}
	return n, nil
}

// ConfirmedEntries pages through confirmed entries in insertion order.
func (s *Store) ConfirmedEntries(ctx context.Context, offset, limit int) ([]model.LedgerEntry, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("confirmed_entries", err, start)
	}()

	var entries []model.LedgerEntry
	err = s.db.WithContext(ctx).
		Where("status = ?", model.StatusConfirmed).
		Order("created_at").Order("id").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query confirmed entries: %w", err)
	}
	return entries, nil
}
