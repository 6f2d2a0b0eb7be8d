package tree

import (
	"context"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	EdgeStore interface {
		SetReferrer(ctx context.Context, accountID, referrerID uint64) error
		AncestorEdges(ctx context.Context, accountID uint64) ([]model.AncestorEdge, error)
		AncestorAtDepth(ctx context.Context, accountID uint64, depth int) (*model.Account, error)
		InsertAncestorEdges(ctx context.Context, edges []model.AncestorEdge) error
		IncrementDirectReferrals(ctx context.Context, accountID uint64) error
		RaiseMaxDescendantDepth(ctx context.Context, accountID uint64, depth int) error
	}
)
