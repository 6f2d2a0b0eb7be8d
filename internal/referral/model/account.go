package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// MaxLevel is the highest membership level an account can reach.
const MaxLevel = 19

var ErrInvalidWallet = errors.New("referral: invalid wallet address")

// Wallet is an EIP-55 checksummed EVM address identifying an account.
type Wallet string

// ParseWallet validates a hex address and returns its checksummed form.
func ParseWallet(raw string) (Wallet, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return "", fmt.Errorf("%w: %q", ErrInvalidWallet, raw)
	}
	return Wallet(common.HexToAddress(raw).Hex()), nil
}

func (w Wallet) String() string {
	return string(w)
}

// Address returns the wallet as a go-ethereum address.
func (w Wallet) Address() common.Address {
	return common.HexToAddress(string(w))
}

// Account is a member of the referral forest.
type Account struct {
	ID                  uint64  `gorm:"primaryKey"`
	Wallet              Wallet  `gorm:"size:42;uniqueIndex;not null"`
	Username            string  `gorm:"size:150"`
	Country             string  `gorm:"size:100"`
	Phone               string  `gorm:"size:32"`
	Email               string  `gorm:"size:254"`
	ReferrerID          *uint64 `gorm:"index"`
	CurrentLevel        int     `gorm:"not null;default:0"`
	DirectReferralCount int     `gorm:"not null;default:0"`
	MaxDescendantDepth  int     `gorm:"not null;default:0"`
	OnChainRegistered   bool    `gorm:"not null;default:false"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (Account) TableName() string {
	return "accounts"
}

// Profile holds the editable contact fields of an account.
type Profile struct {
	Username string
	Country  string
	Phone    string
	Email    string
}

// Profile field names reported by MissingProfileFields.
const (
	FieldUsername = "username"
	FieldCountry  = "country"
	FieldPhone    = "phone"
)

// MissingProfileFields lists the required profile fields that are still empty.
func (a *Account) MissingProfileFields() []string {
	var missing []string
	if strings.TrimSpace(a.Username) == "" {
		missing = append(missing, FieldUsername)
	}
	if strings.TrimSpace(a.Country) == "" {
		missing = append(missing, FieldCountry)
	}
	if strings.TrimSpace(a.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	return missing
}

func (a *Account) ProfileComplete() bool {
	return len(a.MissingProfileFields()) == 0
}

// IsRoot reports whether the account is a forest root.
func (a *Account) IsRoot() bool {
	return a.ReferrerID == nil
}
