// Package reward picks the account credited for a level promotion.
package reward

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
)

// ErrFixedRewardLevel is returned for level 1, whose reward split is fixed policy.
var ErrFixedRewardLevel = errors.New("reward: level 1 rewards are not resolved")

type AncestorLocator interface {
	AncestorAtDepth(ctx context.Context, account *model.Account, depth int) (*model.Account, error)
}

// Recipient is the resolved payee of an upgrade reward.
type Recipient struct {
	Account  *model.Account
	Fallback bool
}

type Resolver struct {
	ancestors AncestorLocator
}

func NewResolver(ancestors AncestorLocator) *Resolver {
	return &Resolver{ancestors: ancestors}
}

// Resolve returns the ancestor targetLevel-1 hops above account when that
// ancestor already holds targetLevel, and the company account otherwise.
func (r *Resolver) Resolve(ctx context.Context, account *model.Account, targetLevel int, company *model.Account) (Recipient, error) {
	if targetLevel <= 1 {
		return Recipient{}, ErrFixedRewardLevel
	}
	if company == nil {
		return Recipient{}, model.ErrCompanyAccountMissing
	}

	ancestor, err := r.ancestors.AncestorAtDepth(ctx, account, targetLevel-1)
	if err != nil {
		return Recipient{}, fmt.Errorf("resolve reward recipient: %w", err)
	}
	if ancestor != nil && ancestor.CurrentLevel >= targetLevel {
		return Recipient{Account: ancestor}, nil
	}
	return Recipient{Account: company, Fallback: true}, nil
}
