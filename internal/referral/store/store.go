// Package store declares the persistence contract shared by the referral
// components. Implementations scope every Store to either a transaction or a
// non-locking snapshot.
package store

import (
	"context"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
)

type (
	Accounts interface {
		AccountByWallet(ctx context.Context, wallet model.Wallet) (*model.Account, error)
		AccountByID(ctx context.Context, id uint64) (*model.Account, error)
		// LockAccount loads the account and holds a row lock until the transaction ends.
		LockAccount(ctx context.Context, wallet model.Wallet) (*model.Account, error)
		CreateAccount(ctx context.Context, account *model.Account) error
		UpdateProfile(ctx context.Context, accountID uint64, profile model.Profile) error
		MarkRegistered(ctx context.Context, accountID uint64) error
		AdvanceLevel(ctx context.Context, accountID uint64, from, to int) error
		DirectReferrals(ctx context.Context, accountID uint64) ([]model.Account, error)
	}

	Tree interface {
		SetReferrer(ctx context.Context, accountID, referrerID uint64) error
		AncestorEdges(ctx context.Context, accountID uint64) ([]model.AncestorEdge, error)
		AncestorAtDepth(ctx context.Context, accountID uint64, depth int) (*model.Account, error)
		InsertAncestorEdges(ctx context.Context, edges []model.AncestorEdge) error
		IncrementDirectReferrals(ctx context.Context, accountID uint64) error
		RaiseMaxDescendantDepth(ctx context.Context, accountID uint64, depth int) error
		Uplines(ctx context.Context, accountID uint64) ([]model.Upline, error)
		Downlines(ctx context.Context, accountID uint64, maxDepth int) ([]model.Downline, error)
	}

	Levels interface {
		LevelDefinition(ctx context.Context, level int) (*model.LevelDefinition, error)
		LevelDefinitions(ctx context.Context) ([]model.LevelDefinition, error)
		SeedLevelDefinitions(ctx context.Context, levels []model.LevelDefinition) (int, error)
	}

	Ledger interface {
		Settlement(ctx context.Context, externalID string) (*model.Settlement, error)
		InsertSettlement(ctx context.Context, settlement *model.Settlement) error
		InsertLedgerEntries(ctx context.Context, entries []model.LedgerEntry) error
		LedgerEntriesByExternalID(ctx context.Context, externalID string) ([]model.LedgerEntry, error)
		LedgerEntriesByAccount(ctx context.Context, accountID uint64, limit int) ([]model.LedgerEntry, error)
		CountConfirmedEntries(ctx context.Context) (int64, error)
		ConfirmedEntries(ctx context.Context, offset, limit int) ([]model.LedgerEntry, error)
	}

	Settings interface {
		Setting(ctx context.Context, key string) (string, bool, error)
		PutSetting(ctx context.Context, key, value string) error
	}

	Stats interface {
		AccountStats(ctx context.Context, accountID uint64, since time.Time) (model.Stats, error)
	}

	Store interface {
		Accounts
		Tree
		Levels
		Ledger
		Settings
		Stats
	}
)
