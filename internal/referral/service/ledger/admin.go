package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/store"
	"go.uber.org/zap"
)

// SeedLevels writes the policy's level table. Existing rows are kept, so the
// call is safe to repeat. It returns the number of inserted levels.
func (s *Service) SeedLevels(ctx context.Context) (int, error) {
	var inserted int
	err := s.repo.InTx(ctx, func(st store.Store) error {
		n, err := st.SeedLevelDefinitions(ctx, s.policy.Levels())
		inserted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed levels: %w", err)
	}
	s.logger.Info("levels seeded", zap.Int("inserted", inserted))
	return inserted, nil
}

// EnsureRoot creates wallet as a forest root: no referrer, registered, at the
// top level. An existing root is returned unchanged.
func (s *Service) EnsureRoot(ctx context.Context, wallet model.Wallet) (*model.Account, bool, error) {
	unlock := s.locks.Lock(wallet.String())
	defer unlock()

	var (
		account *model.Account
		created bool
	)
	err := s.repo.InTx(ctx, func(st store.Store) error {
		existing, err := st.AccountByWallet(ctx, wallet)
		switch {
		case err == nil:
			if !existing.IsRoot() {
				return fmt.Errorf("%w: %s already has a referrer", model.ErrStructuralViolation, wallet)
			}
			account = existing
			return nil
		case !errors.Is(err, model.ErrAccountNotFound):
			return err
		}

		account = &model.Account{
			Wallet:            wallet,
			CurrentLevel:      model.MaxLevel,
			OnChainRegistered: true,
		}
		created = true
		return st.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, false, fmt.Errorf("ensure root: %w", err)
	}
	if created {
		s.logger.Info("root account created", zap.String("wallet", wallet.String()))
	}
	return account, created, nil
}

// SetCompanyWallet points the company account setting at an existing account.
func (s *Service) SetCompanyWallet(ctx context.Context, wallet model.Wallet) error {
	err := s.repo.InTx(ctx, func(st store.Store) error {
		if _, err := st.AccountByWallet(ctx, wallet); err != nil {
			if errors.Is(err, model.ErrAccountNotFound) {
				return fmt.Errorf("%w: %s", model.ErrCompanyAccountMissing, wallet)
			}
			return err
		}
		return st.PutSetting(ctx, model.SettingCompanyWallet, wallet.String())
	})
	if err != nil {
		return fmt.Errorf("set company wallet: %w", err)
	}
	s.logger.Info("company wallet set", zap.String("wallet", wallet.String()))
	return nil
}
