// Package settlement describes the external ledger that settles registration
// and upgrade payments. The referral ledger never moves money itself: it asks
// the gateway for an unsigned payload and later verifies the transaction id the
// payer submits.
package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/shopspring/decimal"
)

// PayloadRequest describes the payment a member is about to make.
type PayloadRequest struct {
	Operation model.Operation
	Payer     model.Wallet
	// Counterparty is the direct referrer for registrations and the reward recipient for upgrades.
	Counterparty model.Wallet
	Amount       decimal.Decimal
	Level        int
}

// Payload is an unsigned transaction the payer signs and submits.
type Payload struct {
	Operation model.Operation `json:"operation"`
	Level     int             `json:"level"`
	Amount    decimal.Decimal `json:"amount"`
	To        string          `json:"to"`
	Data      string          `json:"data"`
	Value     string          `json:"value"`
	ChainID   string          `json:"chainId"`
}

// Verification is the gateway's view of an external transaction. Operation,
// Level, Payer, Counterparty and Amount are optional and left zero when the
// gateway cannot decode them.
type Verification struct {
	Confirmed      bool
	BlockReference string
	RawStatus      string
	Operation      model.Operation
	Level          int
	Payer          model.Wallet
	// Counterparty is the payee named in the settled call.
	Counterparty model.Wallet
	Amount       decimal.NullDecimal
}

// Expectation is what the ledger requires a verified transaction to have paid for.
type Expectation struct {
	Operation model.Operation
	Level     int
	Payer     model.Wallet
	// Counterparty is checked only when set. Upgrades check it separately once
	// the recipient is resolved under lock.
	Counterparty model.Wallet
	Amount       decimal.Decimal
}

// Check returns ErrVerificationFailed when the transaction is unconfirmed or
// paid for something other than the expected operation.
func (v Verification) Check(want Expectation) error {
	if !v.Confirmed {
		return fmt.Errorf("%w: transaction not confirmed (%s)", model.ErrVerificationFailed, v.RawStatus)
	}
	if v.Operation != "" && v.Operation != want.Operation {
		return fmt.Errorf("%w: transaction paid for %s, not %s", model.ErrVerificationFailed, v.Operation, want.Operation)
	}
	if v.Level != 0 && v.Level != want.Level {
		return fmt.Errorf("%w: transaction paid for level %d, not %d", model.ErrVerificationFailed, v.Level, want.Level)
	}
	if v.Payer != "" && v.Payer != want.Payer {
		return fmt.Errorf("%w: transaction sent by %s", model.ErrVerificationFailed, v.Payer)
	}
	if v.Amount.Valid && v.Amount.Decimal.LessThan(want.Amount) {
		return fmt.Errorf("%w: paid %s, expected %s", model.ErrVerificationFailed, v.Amount.Decimal, want.Amount)
	}
	if want.Counterparty != "" {
		return v.CheckCounterparty(want.Counterparty)
	}
	return nil
}

// CheckCounterparty fails when the settled call paid someone other than want.
func (v Verification) CheckCounterparty(want model.Wallet) error {
	if v.Counterparty != "" && v.Counterparty != want {
		return fmt.Errorf("%w: transaction pays %s, not %s", model.ErrVerificationFailed, v.Counterparty, want)
	}
	return nil
}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Gateway builds payment payloads and verifies settled transactions.
	// Transport failures are reported as model.ErrTransientUnavailable.
	Gateway interface {
		BuildPayload(ctx context.Context, req PayloadRequest) (Payload, error)
		Verify(ctx context.Context, externalID string) (Verification, error)
	}

	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ObservedGateway records metrics around another gateway.
type ObservedGateway struct {
	next    Gateway
	metrics Metrics
}

func NewObservedGateway(next Gateway, metrics Metrics) *ObservedGateway {
	return &ObservedGateway{next: next, metrics: metrics}
}

func (g *ObservedGateway) BuildPayload(ctx context.Context, req PayloadRequest) (Payload, error) {
	start := time.Now()
	payload, err := g.next.BuildPayload(ctx, req)
	g.metrics.Observe("build_payload", err, start)
	return payload, err
}

func (g *ObservedGateway) Verify(ctx context.Context, externalID string) (Verification, error) {
	start := time.Now()
	v, err := g.next.Verify(ctx, externalID)
	g.metrics.Observe("verify", err, start)
	return v, err
}

// Offline is a Gateway without a chain connection. Every call fails with
// model.ErrTransientUnavailable, so confirmations are refused before any write.
type Offline struct{}

func (Offline) BuildPayload(context.Context, PayloadRequest) (Payload, error) {
	return Payload{}, fmt.Errorf("%w: settlement gateway offline", model.ErrTransientUnavailable)
}

func (Offline) Verify(context.Context, string) (Verification, error) {
	return Verification{}, fmt.Errorf("%w: settlement gateway offline", model.ErrTransientUnavailable)
}
