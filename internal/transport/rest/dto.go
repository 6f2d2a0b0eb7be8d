package rest

import (
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/service/ledger"
	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Referrer string `json:"referrer"`
}

type profileRequest struct {
	Username string `json:"username"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type confirmRequest struct {
	ExternalTransactionID string `json:"external_transaction_id"`
}

type accountResponse struct {
	ID                  uint64    `json:"id"`
	Wallet              string    `json:"wallet"`
	Username            string    `json:"username"`
	Country             string    `json:"country"`
	Phone               string    `json:"phone"`
	Email               string    `json:"email"`
	ReferrerID          *uint64   `json:"referrer_id"`
	CurrentLevel        int       `json:"current_level"`
	DirectReferralCount int       `json:"direct_referral_count"`
	MaxDescendantDepth  int       `json:"max_descendant_depth"`
	OnChainRegistered   bool      `json:"on_chain_registered"`
	CreatedAt           time.Time `json:"created_at"`
}

func toAccount(a model.Account) accountResponse {
	return accountResponse{
		ID:                  a.ID,
		Wallet:              a.Wallet.String(),
		Username:            a.Username,
		Country:             a.Country,
		Phone:               a.Phone,
		Email:               a.Email,
		ReferrerID:          a.ReferrerID,
		CurrentLevel:        a.CurrentLevel,
		DirectReferralCount: a.DirectReferralCount,
		MaxDescendantDepth:  a.MaxDescendantDepth,
		OnChainRegistered:   a.OnChainRegistered,
		CreatedAt:           a.CreatedAt,
	}
}

// publicAccount hides contact details of other members.
type publicAccount struct {
	Wallet       string `json:"wallet"`
	Username     string `json:"username"`
	CurrentLevel int    `json:"current_level"`
	Depth        int    `json:"depth,omitempty"`
}

func toPublic(a model.Account, depth int) publicAccount {
	return publicAccount{
		Wallet:       a.Wallet.String(),
		Username:     a.Username,
		CurrentLevel: a.CurrentLevel,
		Depth:        depth,
	}
}

type entryResponse struct {
	ID                    string    `json:"id"`
	Wallet                string    `json:"wallet"`
	Type                  string    `json:"type"`
	Amount                string    `json:"amount"`
	Level                 int       `json:"level"`
	Counterparty          *string   `json:"counterparty,omitempty"`
	ExternalTransactionID *string   `json:"external_transaction_id,omitempty"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
}

func toEntry(e model.LedgerEntry) entryResponse {
	out := entryResponse{
		ID:                    e.ID.String(),
		Wallet:                e.AccountWallet.String(),
		Type:                  string(e.Type),
		Amount:                money(e.Amount),
		Level:                 e.Level,
		ExternalTransactionID: e.ExternalTransactionID,
		Status:                string(e.Status),
		CreatedAt:             e.CreatedAt,
	}
	if e.CounterpartyWallet != nil {
		cp := e.CounterpartyWallet.String()
		out.Counterparty = &cp
	}
	return out
}

func toEntries(entries []model.LedgerEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntry(e))
	}
	return out
}

type outcomeResponse struct {
	Account          accountResponse `json:"account"`
	NewLevel         int             `json:"new_level"`
	RewardRecipient  *string         `json:"reward_recipient,omitempty"`
	Fallback         bool            `json:"fallback"`
	AlreadyProcessed bool            `json:"already_processed"`
	Entries          []entryResponse `json:"entries"`
}

func toOutcome(o ledger.Outcome) outcomeResponse {
	out := outcomeResponse{
		Account:          toAccount(o.Account),
		NewLevel:         o.NewLevel,
		Fallback:         o.Fallback,
		AlreadyProcessed: o.AlreadyProcessed,
		Entries:          toEntries(o.Entries),
	}
	if o.RewardRecipient != nil {
		w := o.RewardRecipient.Wallet.String()
		out.RewardRecipient = &w
	}
	return out
}

type levelResponse struct {
	Level              int    `json:"level"`
	Price              string `json:"price"`
	MinDirectReferrals int    `json:"min_direct_referrals"`
	MinAncestorDepth   int    `json:"min_ancestor_depth"`
}

func toLevel(d model.LevelDefinition) levelResponse {
	return levelResponse{
		Level:              d.LevelNumber,
		Price:              money(d.Price),
		MinDirectReferrals: d.MinDirectReferrals,
		MinAncestorDepth:   d.MinAncestorDepth,
	}
}

type eligibilityResponse struct {
	Eligible    bool           `json:"eligible"`
	TargetLevel int            `json:"target_level"`
	Level       *levelResponse `json:"level,omitempty"`
}

type statsResponse struct {
	TeamSize       int       `json:"team_size"`
	NewMembers     int       `json:"new_members"`
	TotalEarnings  string    `json:"total_earnings"`
	PeriodEarnings string    `json:"period_earnings"`
	Since          time.Time `json:"since"`
}

type levelEarningsResponse struct {
	Level   int    `json:"level"`
	Total   string `json:"total"`
	Rewards uint64 `json:"rewards"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
