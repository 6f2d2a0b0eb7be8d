package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EntryType string

const (
	EntryRegistration EntryType = "REGISTRATION"
	EntryUpgrade      EntryType = "UPGRADE"
	EntryReward       EntryType = "REWARD"
)

type EntryStatus string

const (
	StatusPending   EntryStatus = "PENDING"
	StatusConfirmed EntryStatus = "CONFIRMED"
	StatusFailed    EntryStatus = "FAILED"
)

// Operation is the logical operation an external settlement pays for.
type Operation string

const (
	OperationRegistration Operation = "registration"
	OperationUpgrade      Operation = "upgrade"
)

// LedgerEntry is an append-only money movement record. Wallets are copied
// next to the account references so entries can be exported on their own.
type LedgerEntry struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID             uint64          `gorm:"not null;index;uniqueIndex:idx_ledger_entries_confirmed_registration,where:type = 'REGISTRATION' AND status = 'CONFIRMED'"`
	AccountWallet         Wallet          `gorm:"size:42;not null"`
	Type                  EntryType       `gorm:"size:16;not null;index"`
	Amount                decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Level                 int             `gorm:"not null"`
	CounterpartyID        *uint64         `gorm:"index"`
	CounterpartyWallet    *Wallet         `gorm:"size:42"`
	ExternalTransactionID *string         `gorm:"size:128;index"`
	Status                EntryStatus     `gorm:"size:16;not null;index"`
	CreatedAt             time.Time       `gorm:"index"`
	UpdatedAt             time.Time
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// BeforeCreate assigns an id when the caller did not.
func (e *LedgerEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Settlement binds a confirmed external transaction id to the single
// operation it paid for.
type Settlement struct {
	ExternalTransactionID string    `gorm:"primaryKey;size:128"`
	Operation             Operation `gorm:"size:16;not null"`
	AccountID             uint64    `gorm:"not null;index"`
	Level                 int       `gorm:"not null"`
	BlockReference        string    `gorm:"size:128"`
	CreatedAt             time.Time
}

func (Settlement) TableName() string {
	return "settlements"
}

// Matches reports whether the settlement was recorded for the given operation.
func (s *Settlement) Matches(op Operation, accountID uint64) bool {
	return s.Operation == op && s.AccountID == accountID
}

// Setting is a runtime configuration value stored next to the ledger.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:256;not null"`
	UpdatedAt time.Time
}

func (Setting) TableName() string {
	return "settings"
}

// SettingCompanyWallet names the setting holding the company account wallet.
const SettingCompanyWallet = "company_wallet"

// LevelEarnings aggregates reward income for one level.
type LevelEarnings struct {
	Level   int
	Total   decimal.Decimal
	Rewards uint64
}

// Stats summarises an account's network and earnings.
type Stats struct {
	TeamSize       int
	NewMembers     int
	TotalEarnings  decimal.Decimal
	PeriodEarnings decimal.Decimal
}
