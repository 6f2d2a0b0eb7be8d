package reporting

import (
	"context"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Writer interface {
		InsertLedgerEntries(ctx context.Context, entries []model.LedgerEntry) error
	}

	Source interface {
		CountConfirmedEntries(ctx context.Context) (int64, error)
		ConfirmedEntries(ctx context.Context, offset, limit int) ([]model.LedgerEntry, error)
	}

	Metrics interface {
		ObserveFlush(err error, entries int, started time.Time)
		ObserveBackfillPage(err error, started time.Time)
	}
)
