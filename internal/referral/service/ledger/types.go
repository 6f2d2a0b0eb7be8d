package ledger

import (
	"context"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/settlement"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/store"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InTx(ctx context.Context, fn func(store.Store) error) error
		Snapshot() store.Store
	}
	Gateway interface {
		BuildPayload(ctx context.Context, req settlement.PayloadRequest) (settlement.Payload, error)
		Verify(ctx context.Context, externalID string) (settlement.Verification, error)
	}
	Metrics interface {
		ObserveOperation(operation, outcome string, started time.Time)
		ObserveReward(level int, fallback bool)
	}
	// Mirror receives confirmed entries after their transaction committed.
	Mirror interface {
		Publish(ctx context.Context, entries []model.LedgerEntry)
	}
	Reports interface {
		EarningsByLevel(ctx context.Context, accountID uint64, since time.Time) ([]model.LevelEarnings, error)
	}
)
