package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"gorm.io/gorm"
)

// SetReferrer links an account to its referrer. The link is written once.
func (s *Store) SetReferrer(ctx context.Context, accountID, referrerID uint64) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("set_referrer", err, start)
	}()

	res := s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND referrer_id IS NULL", accountID).
		Update("referrer_id", referrerID)
	if err = res.Error; err != nil {
		return fmt.Errorf("set referrer: %w", err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: referrer of account %d already set", model.ErrStructuralViolation, accountID)
	}
	return nil
}

// AncestorEdges returns the outgoing edges of an account ordered by depth.
func (s *Store) AncestorEdges(ctx context.Context, accountID uint64) ([]model.AncestorEdge, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("ancestor_edges", err, start)
	}()

	var edges []model.AncestorEdge
	err = s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("depth").Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("query ancestor edges: %w", err)
	}
	return edges, nil
}

// AncestorAtDepth resolves a single edge through the (account_id, depth) primary key.
func (s *Store) AncestorAtDepth(ctx context.Context, accountID uint64, depth int) (*model.Account, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("ancestor_at_depth", err, start)
	}()

	var accounts []model.Account
	err = s.db.WithContext(ctx).
		Joins("JOIN ancestor_edges ON ancestor_edges.ancestor_id = accounts.id").
		Where("ancestor_edges.account_id = ? AND ancestor_edges.depth = ?", accountID, depth).
		Limit(1).
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("query ancestor at depth: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

// InsertAncestorEdges writes the full chain of a newly attached account.
func (s *Store) InsertAncestorEdges(ctx context.Context, edges []model.AncestorEdge) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("insert_ancestor_edges", err, start)
	}()

	if len(edges) == 0 {
		return nil
	}
	err = s.db.WithContext(ctx).Create(&edges).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: duplicate ancestor edge", model.ErrStructuralViolation)
		}
		return fmt.Errorf("insert ancestor edges: %w", err)
	}
	return nil
}

// IncrementDirectReferrals adds one to the direct referral counter in place.
func (s *Store) IncrementDirectReferrals(ctx context.Context, accountID uint64) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("increment_direct_referrals", err, start)
	}()

	err = s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("direct_referral_count", gorm.Expr("direct_referral_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("increment direct referrals: %w", err)
	}
	return nil
}

// RaiseMaxDescendantDepth stores depth when it exceeds the cached maximum.
func (s *Store) RaiseMaxDescendantDepth(ctx context.Context, accountID uint64, depth int) error {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("raise_max_descendant_depth", err, start)
	}()

	err = s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND max_descendant_depth < ?", accountID, depth).
		UpdateColumn("max_descendant_depth", depth).Error
	if err != nil {
		return fmt.Errorf("raise max descendant depth: %w", err)
	}
	return nil
}

// Uplines returns every ancestor of an account, nearest first.
func (s *Store) Uplines(ctx context.Context, accountID uint64) ([]model.Upline, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("uplines", err, start)
	}()

	var edges []model.AncestorEdge
	if err = s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("depth").Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("query upline edges: %w", err)
	}

	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.AncestorID)
	}
	byID, err := s.accountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.Upline, 0, len(edges))
	for _, e := range edges {
		out = append(out, model.Upline{Account: byID[e.AncestorID], Depth: e.Depth})
	}
	return out, nil
}

// Downlines returns descendants up to maxDepth hops away. maxDepth <= 0 means unbounded.
func (s *Store) Downlines(ctx context.Context, accountID uint64, maxDepth int) ([]model.Downline, error) {
	start := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("downlines", err, start)
	}()

	q := s.db.WithContext(ctx).Where("ancestor_id = ?", accountID)
	if maxDepth > 0 {
		q = q.Where("depth <= ?", maxDepth)
	}
	var edges []model.AncestorEdge
	if err = q.Order("depth").Order("account_id").Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("query downline edges: %w", err)
	}

	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.AccountID)
	}
	byID, err := s.accountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.Downline, 0, len(edges))
	for _, e := range edges {
		out = append(out, model.Downline{Account: byID[e.AccountID], Depth: e.Depth})
	}
	return out, nil
}

func (s *Store) accountsByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Account, error) {
	out := make(map[uint64]model.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var accounts []model.Account
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("query accounts by ids: %w", err)
	}
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out, nil
}
