package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountByWallet loads an account by its wallet.
func (s *Store) AccountByWallet(ctx context.Context, wallet model.Wallet) (*model.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("account_by_wallet", err, start)
	}()

	var account model.Account
	err = s.db.WithContext(ctx).Where("wallet = ?", wallet).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account by wallet: %w", err)
	}
	return &account, nil
}

// AccountByID loads an account by its primary key.
func (s *Store) AccountByID(ctx context.Context, id uint64) (*model.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("account_by_id", err, start)
	}()

	var account model.Account
	err = s.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account by id: %w", err)
	}
	return &account, nil
}

// LockAccount loads an account with SELECT ... FOR UPDATE.
func (s *Store) LockAccount(ctx context.Context, wallet model.Wallet) (*model.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("lock_account", err, start)
	}()

	var account model.Account
	err = s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("wallet = ?", wallet).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("lock account: %w", err)
	}
	return &account, nil
}

// CreateAccount inserts a new account and fills in its id.
func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("create_account", err, start)
	}()

	err = s.db.WithContext(ctx).Create(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrAccountExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// UpdateProfile overwrites the contact fields of an account.
func (s *Store) UpdateProfile(ctx context.Context, accountID uint64, profile model.Profile) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("update_profile", err, start)
	}()

	res := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"username": profile.Username,
			"country":  profile.Country,
			"phone":    profile.Phone,
			"email":    profile.Email,
		})
	if err = res.Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.RowsAffected == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

// MarkRegistered moves a provisional account to level 1.
func (s *Store) MarkRegistered(ctx context.Context, accountID uint64) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("mark_registered", err, start)
	}()

	res := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND on_chain_registered = ? AND current_level = ?", accountID, false, 0).
		Updates(map[string]any{
			"on_chain_registered": true,
			"current_level":       1,
		})
	if err = res.Error; err != nil {
		return fmt.Errorf("mark registered: %w", err)
	}
	if res.RowsAffected == 0 {
		return model.ErrAlreadyRegistered
	}
	return nil
}

// AdvanceLevel sets current_level to `to` only when it still equals `from`.
func (s *Store) AdvanceLevel(ctx context.Context, accountID uint64, from, to int) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("advance_level", err, start)
	}()

	res := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND current_level = ?", accountID, from).
		Update("current_level", to)
	if err = res.Error; err != nil {
		return fmt.Errorf("advance level: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: account %d is no longer at level %d", model.ErrStructuralViolation, accountID, from)
	}
	return nil
}

// DirectReferrals lists the accounts whose referrer is accountID.
func (s *Store) DirectReferrals(ctx context.Context, accountID uint64) ([]model.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("direct_referrals", err, start)
	}()

	var accounts []model.Account
	err = s.db.WithContext(ctx).Where("referrer_id = ?", accountID).Order("id").Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("query direct referrals: %w", err)
	}
	return accounts, nil
}
