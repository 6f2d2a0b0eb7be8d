package ledger

import (
	"context"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/eligibility"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/reward"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/store"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/tree"
	"go.uber.org/zap"
)

// Eligibility is the pre-flight view of the next promotion of an account.
type Eligibility struct {
	Account     model.Account
	TargetLevel int
	Definition  *model.LevelDefinition
}

// CheckEligibility evaluates the next level of wallet against a non-locking
// snapshot. An ineligible account yields an *eligibility.IneligibleError.
func (s *Service) CheckEligibility(ctx context.Context, wallet model.Wallet) (Eligibility, error) {
	account, err := s.repo.Snapshot().AccountByWallet(ctx, wallet)
	if err != nil {
		return Eligibility{}, err
	}
	return checkNextLevel(ctx, s.repo.Snapshot(), account)
}

func checkNextLevel(ctx context.Context, st store.Store, account *model.Account) (Eligibility, error) {
	if !account.OnChainRegistered {
		return Eligibility{}, model.ErrNotRegistered
	}
	target := account.CurrentLevel + 1
	def, err := st.LevelDefinition(ctx, target)
	if err != nil {
		return Eligibility{}, err
	}
	if err := eligibility.Check(account, target, def); err != nil {
		return Eligibility{}, err
	}
	return Eligibility{Account: *account, TargetLevel: target, Definition: def}, nil
}

// RequestUpgradePayload checks eligibility, resolves the reward recipient and
// asks the gateway for an unsigned upgrade payload. Nothing is written.
func (s *Service) RequestUpgradePayload(ctx context.Context, wallet model.Wallet) (settlement.Payload, error) {
	start := time.Now()
	var err error
	defer func() {
		s.observe("upgrade_payload", err, false, start)
	}()

	snap := s.repo.Snapshot()
	account, err := snap.AccountByWallet(ctx, wallet)
	if err != nil {
		return settlement.Payload{}, err
	}
	el, err := checkNextLevel(ctx, snap, account)
	if err != nil {
		return settlement.Payload{}, err
	}
	company, err := s.company(ctx, snap)
	if err != nil {
		return settlement.Payload{}, err
	}
	recipient, err := reward.NewResolver(tree.New(snap)).Resolve(ctx, account, el.TargetLevel, company)
	if err != nil {
		return settlement.Payload{}, err
	}

	payload, err := s.buildPayload(ctx, settlement.PayloadRequest{
		Operation:    model.OperationUpgrade,
		Payer:        account.Wallet,
		Counterparty: recipient.Account.Wallet,
		Amount:       el.Definition.Price,
		Level:        el.TargetLevel,
	})
	return payload, err
}

// ConfirmUpgrade verifies externalID once and, when it paid for the next level
// of wallet, advances the account and records the upgrade with its rewards.
func (s *Service) ConfirmUpgrade(ctx context.Context, wallet model.Wallet, externalID string) (Outcome, error) {
	start := time.Now()
	var (
		err error
		out Outcome
	)
	defer func() {
		s.observe("confirm_upgrade", err, out.AlreadyProcessed, start)
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
	replayed, err := replay(ctx, snap, externalID, model.OperationUpgrade, account.ID)
	if err != nil {
		return Outcome{}, err
	}
	if replayed {
		out, err = replayedOutcome(ctx, snap, account, externalID)
		return out, err
	}
	el, err := checkNextLevel(ctx, snap, account)
	if err != nil {
		return Outcome{}, err
	}

	v, err := s.verify(ctx, externalID)
	if err != nil {
		return Outcome{}, err
	}
	if err = v.Check(settlement.Expectation{
		Operation: model.OperationUpgrade,
		Level:     el.TargetLevel,
		Payer:     account.Wallet,
		Amount:    el.Definition.Price,
	}); err != nil {
		s.logger.Warn("upgrade settlement rejected",
			zap.String("wallet", wallet.String()),
			zap.String("external_id", externalID),
			zap.Int("level", el.TargetLevel),
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
		replayed, err := replay(ctx, st, externalID, model.OperationUpgrade, locked.ID)
		if err != nil {
			return err
		}
		if replayed {
			out, err = replayedOutcome(ctx, st, locked, externalID)
			return err
		}

		// The verified payment is for el.TargetLevel. Re-validate against the
		// locked row so a concurrent promotion turns this into StaleLevel.
		if !locked.OnChainRegistered {
			return model.ErrNotRegistered
		}
		target := el.TargetLevel
		def, err := st.LevelDefinition(ctx, target)
		if err != nil {
			return err
		}
		if err := eligibility.Check(locked, target, def); err != nil {
			return err
		}

		company, err := s.company(ctx, st)
		if err != nil {
			return err
		}
		recipient, err := reward.NewResolver(tree.New(st)).Resolve(ctx, locked, target, company)
		if err != nil {
			return err
		}
		if err := v.CheckCounterparty(recipient.Account.Wallet); err != nil {
			s.logger.Warn("upgrade settlement paid another recipient",
				zap.String("wallet", wallet.String()),
				zap.String("external_id", externalID),
				zap.String("paid", v.Counterparty.String()),
				zap.String("resolved", recipient.Account.Wallet.String()),
			)
			return err
		}
		split := s.policy.UpgradeSplit(*def)

		if err := st.InsertSettlement(ctx, &model.Settlement{
			ExternalTransactionID: externalID,
			Operation:             model.OperationUpgrade,
			AccountID:             locked.ID,
			Level:                 target,
			BlockReference:        v.BlockReference,
		}); err != nil {
			return err
		}

		entries := []model.LedgerEntry{
			confirmedEntry(locked, model.EntryUpgrade, def.Price, target, recipient.Account, externalID),
			confirmedEntry(recipient.Account, model.EntryReward, split.Recipient, target, locked, externalID),
		}
		if split.CompanyEntry && split.Company.IsPositive() {
			entries = append(entries, confirmedEntry(company, model.EntryReward, split.Company, target, locked, externalID))
		}
		if err := st.InsertLedgerEntries(ctx, entries); err != nil {
			return err
		}
		if err := st.AdvanceLevel(ctx, locked.ID, locked.CurrentLevel, target); err != nil {
			return err
		}

		updated, err := st.AccountByID(ctx, locked.ID)
		if err != nil {
			return err
		}
		out = Outcome{
			Account:         *updated,
			NewLevel:        target,
			RewardRecipient: recipient.Account,
			Fallback:        recipient.Fallback,
			Entries:         entries,
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if !out.AlreadyProcessed {
		s.metrics.ObserveReward(out.NewLevel, out.Fallback)
		s.publish(ctx, out.Entries)
		s.logger.Info("upgrade confirmed",
			zap.String("wallet", wallet.String()),
			zap.String("external_id", externalID),
			zap.Int("level", out.NewLevel),
			zap.String("recipient", out.RewardRecipient.Wallet.String()),
			zap.Bool("fallback", out.Fallback),
		)
	}
	return out, nil
}
