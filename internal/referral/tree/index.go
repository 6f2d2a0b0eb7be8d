// Package tree maintains the materialized ancestor index of the referral forest.
package tree

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
)

// Index operates on a transaction-scoped EdgeStore. Attach is only atomic
// when the store is bound to a single transaction.
type Index struct {
	store EdgeStore
}

func New(store EdgeStore) *Index {
	return &Index{store: store}
}

type attachOptions struct {
	allowUnregisteredReferrer bool
}

type AttachOption func(*attachOptions)

// AllowUnregisteredReferrer lifts the on-chain registration requirement on the
// referrer. Used when importing an existing network.
func AllowUnregisteredReferrer() AttachOption {
	return func(o *attachOptions) {
		o.allowUnregisteredReferrer = true
	}
}

// Attach links account below referrer and materializes every ancestor edge of
// the new account. It returns the written edges ordered by depth.
func (i *Index) Attach(ctx context.Context, account, referrer *model.Account, opts ...AttachOption) ([]model.AncestorEdge, error) {
	var o attachOptions
	for _, opt := range opts {
		opt(&o)
	}

	if referrer == nil {
		return nil, model.ErrReferrerNotFound
	}
	if account.ID == referrer.ID || account.Wallet == referrer.Wallet {
		return nil, fmt.Errorf("%w: account cannot refer itself", model.ErrStructuralViolation)
	}
	if !o.allowUnregisteredReferrer && !referrer.OnChainRegistered {
		return nil, model.ErrReferrerNotRegistered
	}
	if account.ReferrerID != nil {
		return nil, fmt.Errorf("%w: account %s already attached", model.ErrStructuralViolation, account.Wallet)
	}

	existing, err := i.store.AncestorEdges(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("load account edges: %w", err)
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: account %s already has ancestors", model.ErrStructuralViolation, account.Wallet)
	}

	upstream, err := i.store.AncestorEdges(ctx, referrer.ID)
	if err != nil {
		return nil, fmt.Errorf("load referrer edges: %w", err)
	}

	edges := make([]model.AncestorEdge, 0, len(upstream)+1)
	edges = append(edges, model.AncestorEdge{AccountID: account.ID, AncestorID: referrer.ID, Depth: 1})
	for _, e := range upstream {
		if e.AncestorID == account.ID {
			return nil, fmt.Errorf("%w: account %s is an ancestor of its referrer", model.ErrStructuralViolation, account.Wallet)
		}
		edges = append(edges, model.AncestorEdge{AccountID: account.ID, AncestorID: e.AncestorID, Depth: e.Depth + 1})
	}

	if err := i.store.SetReferrer(ctx, account.ID, referrer.ID); err != nil {
		return nil, fmt.Errorf("set referrer: %w", err)
	}
	if err := i.store.InsertAncestorEdges(ctx, edges); err != nil {
		return nil, fmt.Errorf("insert ancestor edges: %w", err)
	}
	if err := i.store.IncrementDirectReferrals(ctx, referrer.ID); err != nil {
		return nil, fmt.Errorf("increment direct referrals: %w", err)
	}
	for _, e := range edges {
		if err := i.store.RaiseMaxDescendantDepth(ctx, e.AncestorID, e.Depth); err != nil {
			return nil, fmt.Errorf("raise descendant depth of %d: %w", e.AncestorID, err)
		}
	}

	referrerID := referrer.ID
	account.ReferrerID = &referrerID
	return edges, nil
}

// AncestorAtDepth returns the ancestor depth hops above account, or nil past the root.
func (i *Index) AncestorAtDepth(ctx context.Context, account *model.Account, depth int) (*model.Account, error) {
	if depth < 1 {
		return nil, fmt.Errorf("depth %d must be positive", depth)
	}
	ancestor, err := i.store.AncestorAtDepth(ctx, account.ID, depth)
	if err != nil {
		return nil, fmt.Errorf("ancestor at depth %d: %w", depth, err)
	}
	return ancestor, nil
}
