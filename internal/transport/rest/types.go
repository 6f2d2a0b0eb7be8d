package rest

import (
	"context"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/service/ledger"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Ledger interface {
		RegisterProvisional(ctx context.Context, wallet, referrerWallet model.Wallet) (*model.Account, error)
		UpdateProfile(ctx context.Context, wallet model.Wallet, profile model.Profile) (*model.Account, error)
		Account(ctx context.Context, wallet model.Wallet) (*model.Account, error)
		RequestRegistrationPayload(ctx context.Context, wallet model.Wallet) (settlement.Payload, error)
		ConfirmRegistration(ctx context.Context, wallet model.Wallet, externalID string) (ledger.Outcome, error)
		CheckEligibility(ctx context.Context, wallet model.Wallet) (ledger.Eligibility, error)
		RequestUpgradePayload(ctx context.Context, wallet model.Wallet) (settlement.Payload, error)
		ConfirmUpgrade(ctx context.Context, wallet model.Wallet, externalID string) (ledger.Outcome, error)
		Uplines(ctx context.Context, wallet model.Wallet) ([]model.Upline, error)
		Downlines(ctx context.Context, wallet model.Wallet, maxDepth int) ([]model.Downline, error)
		DirectReferrals(ctx context.Context, wallet model.Wallet) ([]model.Account, error)
		Entries(ctx context.Context, wallet model.Wallet, limit int) ([]model.LedgerEntry, error)
		Levels(ctx context.Context) ([]model.LevelDefinition, error)
		Stats(ctx context.Context, wallet model.Wallet, since time.Time) (model.Stats, error)
		EarningsByLevel(ctx context.Context, wallet model.Wallet, since time.Time) ([]model.LevelEarnings, error)
	}

	Metrics interface {
		ObserveRequest(route, method string, code int, started time.Time)
	}
)
