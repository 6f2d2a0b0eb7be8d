package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/eligibility"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/store"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/tree"
	"go.uber.org/zap"
)

// RegisterProvisional creates wallet at level 0 below referrerWallet and
// materializes its ancestor edges in the same transaction.
func (s *Service) RegisterProvisional(ctx context.Context, wallet, referrerWallet model.Wallet) (*model.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		s.observe("register_provisional", err, false, start)
	}()

	if wallet == referrerWallet {
		err = fmt.Errorf("%w: account cannot refer itself", model.ErrStructuralViolation)
		return nil, err
	}

	unlock := s.locks.Lock(wallet.String())
	defer unlock()

	var account *model.Account
	err = s.repo.InTx(ctx, func(st store.Store) error {
		referrer, err := st.AccountByWallet(ctx, referrerWallet)
		if err != nil {
			if errors.Is(err, model.ErrAccountNotFound) {
				return fmt.Errorf("%w: %s", model.ErrReferrerNotFound, referrerWallet)
			}
			return err
		}

		account, err = st.AccountByWallet(ctx, wallet)
		switch {
		case errors.Is(err, model.ErrAccountNotFound):
			account = &model.Account{Wallet: wallet}
			if err := st.CreateAccount(ctx, account); err != nil {
				return err
			}
		case err != nil:
			return err
		case account.OnChainRegistered || account.CurrentLevel > 0:
			return fmt.Errorf("%w: account %s is already registered", model.ErrStructuralViolation, wallet)
		}

		var opts []tree.AttachOption
		if s.cfg.AllowUnregisteredReferrer {
			opts = append(opts, tree.AllowUnregisteredReferrer())
		}
		_, err = tree.New(st).Attach(ctx, account, referrer, opts...)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("provisional account attached",
		zap.String("wallet", wallet.String()),
		zap.String("referrer", referrerWallet.String()),
	)
	return account, nil
}

// RequestRegistrationPayload sizes the registration payment and asks the
// gateway for an unsigned payload. Nothing is written.
func (s *Service) RequestRegistrationPayload(ctx context.Context, wallet model.Wallet) (settlement.Payload, error) {
	start := time.Now()
	var err error
	defer func() {
		s.observe("registration_payload", err, false, start)
	}()

	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return settlement.Payload{}, err
	}
	if err = registrationPreflight(account); err != nil {
		return settlement.Payload{}, err
	}
	referrer, err := referrerOf(ctx, snap, account)
	if err != nil {
		return settlement.Payload{}, err
	}
	def, err := levelDefinition(ctx, snap, 1)
	if err != nil {
		return settlement.Payload{}, err
	}

	payload, err := s.buildPayload(ctx, settlement.PayloadRequest{
		Operation:    model.OperationRegistration,
		Payer:        account.Wallet,
		Counterparty: referrer.Wallet,
		Amount:       s.policy.RegistrationAmount(*def),
		Level:        1,
	})
	return payload, err
}

// ConfirmRegistration verifies externalID once and, if the settlement paid for
// this registration, promotes the account to level 1 and records the
// registration with its two rewards. A replayed id returns AlreadyProcessed.
func (s *Service) ConfirmRegistration(ctx context.Context, wallet model.Wallet, externalID string) (Outcome, error) {
	start := time.Now()
	var (
		err error
		out Outcome
	)
	defer func() {
		s.observe("confirm_registration", err, out.AlreadyProcessed, start)
	}()

	externalID, err = normalizeExternalID(externalID)
	if err != nil {
		return Outcome{}, err
	}

	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return Outcome{}, err
	}
	replayed, err := replay(ctx, snap, externalID, model.OperationRegistration, account.ID)
	if err != nil {
		return Outcome{}, err
	}
	if replayed {
		out, err = replayedOutcome(ctx, snap, account, externalID)
		return out, err
	}
	if account.OnChainRegistered {
		err = model.ErrAlreadyRegistered
		return Outcome{}, err
	}
	def, err := levelDefinition(ctx, snap, 1)
	if err != nil {
		return Outcome{}, err
	}

	referrer, err := referrerOf(ctx, snap, account)
	if err != nil {
		return Outcome{}, err
	}

	v, err := s.verify(ctx, externalID)
	if err != nil {
		return Outcome{}, err
	}
	if err = v.Check(settlement.Expectation{
		Operation:    model.OperationRegistration,
		Level:        1,
		Payer:        account.Wallet,
		Counterparty: referrer.Wallet,
		Amount:       s.policy.RegistrationAmount(*def),
	}); err != nil {
		s.logger.Warn("registration settlement rejected",
			zap.String("wallet", wallet.String()),
			zap.String("external_id", externalID),
			zap.String("status", v.RawStatus),
			zap.Error(err),
		)
		return Outcome{}, err
	}

	unlock := s.locks.Lock(wallet.String())
	defer unlock()

	err = s.repo.InTx(ctx, func(st store.Store) error {
		locked, err := st.LockAccount(ctx, wallet)
		if err != nil {
			return err
		}
		replayed, err := replay(ctx, st, externalID, model.OperationRegistration, locked.ID)
		if err != nil {
			return err
		}
		if replayed {
			out, err = replayedOutcome(ctx, st, locked, externalID)
			return err
		}
		if locked.OnChainRegistered {
			return model.ErrAlreadyRegistered
		}

		referrer, err := referrerOf(ctx, st, locked)
		if err != nil {
			return err
		}
		company, err := s.company(ctx, st)
		if err != nil {
			return err
		}
		def, err := levelDefinition(ctx, st, 1)
		if err != nil {
			return err
		}
		split := s.policy.RegistrationSplit(*def)

		if err := st.InsertSettlement(ctx, &model.Settlement{
			ExternalTransactionID: externalID,
			Operation:             model.OperationRegistration,
			AccountID:             locked.ID,
			Level:                 1,
			BlockReference:        v.BlockReference,
		}); err != nil {
			return err
		}

		entries := []model.LedgerEntry{
			confirmedEntry(locked, model.EntryRegistration, s.policy.RegistrationAmount(*def), 1, referrer, externalID),
			confirmedEntry(referrer, model.EntryReward, split.Recipient, 1, locked, externalID),
		}
		if split.CompanyEntry && split.Company.IsPositive() {
			entries = append(entries, confirmedEntry(company, model.EntryReward, split.Company, 1, locked, externalID))
		}
		if err := st.InsertLedgerEntries(ctx, entries); err != nil {
			return err
		}
		if err := st.MarkRegistered(ctx, locked.ID); err != nil {
			return err
		}

		updated, err := st.AccountByID(ctx, locked.ID)
		if err != nil {
			return err
		}
		out = Outcome{
			Account:         *updated,
			NewLevel:        updated.CurrentLevel,
			RewardRecipient: referrer,
			Entries:         entries,
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.AlreadyProcessed {
		s.publish(ctx, out.Entries)
		s.logger.Info("registration confirmed",
			zap.String("wallet", wallet.String()),
			zap.String("external_id", externalID),
			zap.String("block", v.BlockReference),
		)
	}
	return out, nil
}

func registrationPreflight(account *model.Account) error {
	if account.OnChainRegistered || account.CurrentLevel > 0 {
		return model.ErrAlreadyRegistered
	}
	if missing := account.MissingProfileFields(); len(missing) > 0 {
		return &eligibility.IneligibleError{
			Reason:        eligibility.ReasonIncompleteProfile,
			CurrentLevel:  account.CurrentLevel,
			TargetLevel:   1,
			MissingFields: missing,
		}
	}
	return nil
}

func referrerOf(ctx context.Context, st store.Store, account *model.Account) (*model.Account, error) {
	if account.ReferrerID == nil {
		return nil, fmt.Errorf("%w: account %s has no referrer", model.ErrReferrerNotFound, account.Wallet)
	}
	referrer, err := st.AccountByID(ctx, *account.ReferrerID)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %d", model.ErrReferrerNotFound, *account.ReferrerID)
		}
		return nil, err
	}
	return referrer, nil
}
