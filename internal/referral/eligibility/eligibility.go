// Package eligibility decides whether an account may advance to a level.
package eligibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
)

// Reason classifies why an advancement request was refused.
type Reason string

const (
	ReasonStaleLevel            Reason = "stale_level"
	ReasonSkippedLevel          Reason = "skipped_level"
	ReasonLevelUnknown          Reason = "level_unknown"
	ReasonInsufficientReferrals Reason = "insufficient_referrals"
	ReasonInsufficientDepth     Reason = "insufficient_depth"
	ReasonIncompleteProfile     Reason = "incomplete_profile"
)

// ErrIneligible is wrapped by every IneligibleError.
var ErrIneligible = errors.New("referral: account is not eligible")

// IneligibleError carries the typed reason of a refused advancement.
type IneligibleError struct {
	Reason        Reason
	CurrentLevel  int
	TargetLevel   int
	Needed        int
	Actual        int
	MissingFields []string
}

func (e *IneligibleError) Error() string {
	switch e.Reason {
	case ReasonInsufficientReferrals:
		return fmt.Sprintf("level %d needs %d direct referrals, have %d", e.TargetLevel, e.Needed, e.Actual)
	case ReasonInsufficientDepth:
		return fmt.Sprintf("level %d needs downline depth %d, have %d", e.TargetLevel, e.Needed, e.Actual)
	case ReasonIncompleteProfile:
		return fmt.Sprintf("profile incomplete, missing: %s", strings.Join(e.MissingFields, ", "))
	default:
		return fmt.Sprintf("%s: current level %d, target level %d", e.Reason, e.CurrentLevel, e.TargetLevel)
	}
}

func (e *IneligibleError) Unwrap() error {
	return ErrIneligible
}

// ReasonOf extracts the reason from an error chain.
func ReasonOf(err error) (Reason, bool) {
	var ie *IneligibleError
	if errors.As(err, &ie) {
		return ie.Reason, true
	}
	return "", false
}

// Check returns nil when account may advance to target, or an *IneligibleError.
// def is the definition of the target level and is nil when none exists.
func Check(account *model.Account, target int, def *model.LevelDefinition) error {
	refuse := func(reason Reason) *IneligibleError {
		return &IneligibleError{Reason: reason, CurrentLevel: account.CurrentLevel, TargetLevel: target}
	}

	if target <= account.CurrentLevel {
		return refuse(ReasonStaleLevel)
	}
	if target != account.CurrentLevel+1 {
		return refuse(ReasonSkippedLevel)
	}
	if def == nil || def.LevelNumber != target {
		return refuse(ReasonLevelUnknown)
	}

	switch {
	case target == 2:
		if account.DirectReferralCount < def.MinDirectReferrals {
			e := refuse(ReasonInsufficientReferrals)
			e.Needed, e.Actual = def.MinDirectReferrals, account.DirectReferralCount
			return e
		}
	case target > 2:
		if missing := account.MissingProfileFields(); len(missing) > 0 {
			e := refuse(ReasonIncompleteProfile)
			e.MissingFields = missing
			return e
		}
		if account.MaxDescendantDepth < def.MinAncestorDepth {
			e := refuse(ReasonInsufficientDepth)
			e.Needed, e.Actual = def.MinAncestorDepth, account.MaxDescendantDepth
			return e
		}
	}
	return nil
}
