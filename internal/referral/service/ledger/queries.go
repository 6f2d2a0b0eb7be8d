package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/store"
	"go.uber.org/zap"
)

const defaultEntriesLimit = 100

func (s *Service) Account(ctx context.Context, wallet model.Wallet) (*model.Account, error) {
	return s.repo.Snapshot().AccountByWallet(ctx, wallet)
}

// UpdateProfile replaces the contact fields of wallet. Username, country and
// phone must all be present.
func (s *Service) UpdateProfile(ctx context.Context, wallet model.Wallet, profile model.Profile) (*model.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		s.observe("update_profile", err, false, start)
	}()

	profile = model.Profile{
		Username: strings.TrimSpace(profile.Username),
		Country:  strings.TrimSpace(profile.Country),
		Phone:    strings.TrimSpace(profile.Phone),
		Email:    strings.TrimSpace(profile.Email),
	}
	if profile.Username == "" || profile.Country == "" || profile.Phone == "" {
		err = model.ErrProfileFieldsRequired
		return nil, err
	}

	unlock := s.locks.Lock(wallet.String())
	defer unlock()

	var account *model.Account
	err = s.repo.InTx(ctx, func(st store.Store) error {
		locked, err := st.LockAccount(ctx, wallet)
		if err != nil {
			return err
		}
		if err := st.UpdateProfile(ctx, locked.ID, profile); err != nil {
			return err
		}
		account, err = st.AccountByID(ctx, locked.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("profile updated", zap.String("wallet", wallet.String()))
	return account, nil
}

func (s *Service) Uplines(ctx context.Context, wallet model.Wallet) ([]model.Upline, error) {
	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return snap.Uplines(ctx, account.ID)
}

// Downlines lists descendants of wallet up to maxDepth hops; maxDepth <= 0 lists all.
func (s *Service) Downlines(ctx context.Context, wallet model.Wallet, maxDepth int) ([]model.Downline, error) {
	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return snap.Downlines(ctx, account.ID, maxDepth)
}

func (s *Service) DirectReferrals(ctx context.Context, wallet model.Wallet) ([]model.Account, error) {
	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return snap.DirectReferrals(ctx, account.ID)
}

// Entries lists ledger entries wallet owns or is the counterparty of, newest first.
func (s *Service) Entries(ctx context.Context, wallet model.Wallet, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultEntriesLimit
	}
	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return snap.LedgerEntriesByAccount(ctx, account.ID, limit)
}

func (s *Service) Levels(ctx context.Context) ([]model.LevelDefinition, error) {
	return s.repo.Snapshot().LevelDefinitions(ctx)
}

// Stats summarises the network and reward income of wallet. Members and
// earnings newer than since are reported separately.
func (s *Service) Stats(ctx context.Context, wallet model.Wallet, since time.Time) (model.Stats, error) {
	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return model.Stats{}, err
	}
	return snap.AccountStats(ctx, account.ID, since)
}

// EarningsByLevel reads per-level reward totals from the reporting store.
func (s *Service) EarningsByLevel(ctx context.Context, wallet model.Wallet, since time.Time) ([]model.LevelEarnings, error) {
	if s.reports == nil {
		return nil, ErrReportingDisabled
	}
	account, err := s.repo.Snapshot().AccountByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return s.reports.EarningsByLevel(ctx, account.ID, since)
}
