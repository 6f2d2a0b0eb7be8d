package model

import "time"

// AncestorEdge links an account to one of its ancestors at a fixed depth.
// Depth 1 is the direct referrer.
type AncestorEdge struct {
	AccountID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	Depth      int    `gorm:"primaryKey;autoIncrement:false;index:idx_ancestor_edges_ancestor_depth,priority:2"`
	AncestorID uint64 `gorm:"not null;index:idx_ancestor_edges_ancestor_depth,priority:1"`
	CreatedAt  time.Time
}

func (AncestorEdge) TableName() string {
	return "ancestor_edges"
}

// Upline is an ancestor together with its distance from the account.
type Upline struct {
	Account Account
	Depth   int
}

// Downline is a descendant together with its distance from the account.
type Downline struct {
	Account Account
	Depth   int
}
