// Package ledger drives the registration and upgrade workflows of the
// referral network and records every money movement they cause.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/metrics"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/eligibility"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/policy"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultGatewayTimeout = 10 * time.Second

// ErrReportingDisabled is returned by report queries when no reporting store is configured.
var ErrReportingDisabled = errors.New("ledger: reporting store not configured")

type Config struct {
	// CompanyWallet is used when the settings table holds no company wallet.
	CompanyWallet model.Wallet
	// GatewayTimeout bounds every settlement gateway call.
	GatewayTimeout time.Duration
	// AllowUnregisteredReferrer lets provisional accounts attach below
	// referrers that are not registered on chain yet.
	AllowUnregisteredReferrer bool
}

// Outcome is the result of a confirmation.
type Outcome struct {
	Account         model.Account
	NewLevel        int
	RewardRecipient *model.Account
	Fallback        bool
	Entries         []model.LedgerEntry
	// AlreadyProcessed reports a replayed external transaction id. Nothing was written.
	AlreadyProcessed bool
}

// Service is the ledger and reconciliation engine.
type Service struct {
	repo    Repository
	gateway Gateway
	policy  *policy.Policy
	metrics Metrics
	mirror  Mirror
	reports Reports
	logger  *zap.Logger
	cfg     Config

	locks *keyedLocker
}

// NewService wires the ledger. mirror and reports may be nil.
func NewService(
	repo Repository,
	gateway Gateway,
	pol *policy.Policy,
	m Metrics,
	mirror Mirror,
	reports Reports,
	logger *zap.Logger,
	cfg Config,
) (*Service, error) {
	if repo == nil {
		return nil, errors.New("ledger repository is required")
	}
	if gateway == nil {
		return nil, errors.New("settlement gateway is required")
	}
	if pol == nil {
		return nil, errors.New("level policy is required")
	}
	if m == nil {
		return nil, errors.New("ledger metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}
	return &Service{
		repo:    repo,
		gateway: gateway,
		policy:  pol,
		metrics: m,
		mirror:  mirror,
		reports: reports,
		logger:  logger,
		cfg:     cfg,
		locks:   newKeyedLocker(),
	}, nil
}

// company resolves the company account on every call so that a changed
// setting takes effect without a restart.
func (s *Service) company(ctx context.Context, st store.Store) (*model.Account, error) {
	raw, ok, err := st.Setting(ctx, model.SettingCompanyWallet)
	if err != nil {
		return nil, fmt.Errorf("load company wallet: %w", err)
	}
	if !ok || raw == "" {
		raw = s.cfg.CompanyWallet.String()
	}
	if raw == "" {
		return nil, model.ErrCompanyAccountMissing
	}
	wallet, err := model.ParseWallet(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCompanyAccountMissing, err)
	}
	account, err := st.AccountByWallet(ctx, wallet)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", model.ErrCompanyAccountMissing, wallet)
		}
		return nil, err
	}
	return account, nil
}

func levelDefinition(ctx context.Context, st store.Store, level int) (*model.LevelDefinition, error) {
	def, err := st.LevelDefinition(ctx, level)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("%w: level %d", model.ErrLevelDefinitionMissing, level)
	}
	return def, nil
}

func (s *Service) buildPayload(ctx context.Context, req settlement.PayloadRequest) (settlement.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	payload, err := s.gateway.BuildPayload(ctx, req)
	if err != nil {
		return settlement.Payload{}, gatewayError("build payload", err)
	}
	return payload, nil
}

func (s *Service) verify(ctx context.Context, externalID string) (settlement.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	v, err := s.gateway.Verify(ctx, externalID)
	if err != nil {
		return settlement.Verification{}, gatewayError("verify", err)
	}
	return v, nil
}

func gatewayError(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrTransientUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", model.ErrTransientUnavailable, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func normalizeExternalID(raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" {
		return "", model.ErrInvalidExternalID
	}
	return id, nil
}

// replay looks for an earlier settlement of externalID. It returns true when
// the id was already applied to the same operation and account.
func replay(ctx context.Context, st store.Store, externalID string, op model.Operation, accountID uint64) (bool, error) {
	prev, err := st.Settlement(ctx, externalID)
	if err != nil {
		return false, err
	}
	if prev == nil {
		return false, nil
	}
	if !prev.Matches(op, accountID) {
		return false, fmt.Errorf("%w: %s", model.ErrExternalIDReused, externalID)
	}
	return true, nil
}

// replayedOutcome reports the state left by an earlier application of externalID.
func replayedOutcome(ctx context.Context, st store.Store, account *model.Account, externalID string) (Outcome, error) {
	entries, err := st.LedgerEntriesByExternalID(ctx, externalID)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Account:          *account,
		NewLevel:         account.CurrentLevel,
		Entries:          entries,
		AlreadyProcessed: true,
	}, nil
}

func (s *Service) publish(ctx context.Context, entries []model.LedgerEntry) {
	if s.mirror == nil || len(entries) == 0 {
		return
	}
	s.mirror.Publish(ctx, entries)
}

func (s *Service) observe(operation string, err error, replayed bool, started time.Time) {
	s.metrics.ObserveOperation(operation, outcomeOf(err, replayed), started)
}

func outcomeOf(err error, replayed bool) string {
	var ineligible *eligibility.IneligibleError
	switch {
	case err == nil && replayed:
		return metrics.OutcomeReplayed
	case err == nil:
		return metrics.OutcomeApplied
	case errors.Is(err, model.ErrTransientUnavailable):
		return metrics.OutcomeTransient
	case errors.As(err, &ineligible),
		errors.Is(err, model.ErrVerificationFailed),
		errors.Is(err, model.ErrExternalIDReused),
		errors.Is(err, model.ErrInvalidExternalID),
		errors.Is(err, model.ErrAlreadyRegistered),
		errors.Is(err, model.ErrNotRegistered),
		errors.Is(err, model.ErrStructuralViolation),
		errors.Is(err, model.ErrReferrerNotFound),
		errors.Is(err, model.ErrReferrerNotRegistered),
		errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrProfileFieldsRequired):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func confirmedEntry(owner *model.Account, typ model.EntryType, amount decimal.Decimal, level int, counterparty *model.Account, externalID string) model.LedgerEntry {
	e := model.LedgerEntry{
		AccountID:     owner.ID,
		AccountWallet: owner.Wallet,
		Type:          typ,
		Amount:        amount,
		Level:         level,
		Status:        model.StatusConfirmed,
	}
	if counterparty != nil {
		id, wallet := counterparty.ID, counterparty.Wallet
		e.CounterpartyID = &id
		e.CounterpartyWallet = &wallet
	}
	if externalID != "" {
		id := externalID
		e.ExternalTransactionID = &id
	}
	return e
}
