package model

import "errors"

var (
	ErrAccountNotFound        = errors.New("referral: account not found")
	ErrAccountExists          = errors.New("referral: account already exists")
	ErrReferrerNotFound       = errors.New("referral: referrer not found")
	ErrReferrerNotRegistered  = errors.New("referral: referrer is not registered on chain")
	ErrStructuralViolation    = errors.New("referral: structural violation")
	ErrAlreadyRegistered      = errors.New("referral: account already registered")
	ErrNotRegistered          = errors.New("referral: account is not registered")
	ErrVerificationFailed     = errors.New("referral: settlement verification failed")
	ErrTransientUnavailable   = errors.New("referral: settlement gateway unavailable")
	ErrExternalIDReused       = errors.New("referral: external transaction id already used by another operation")
	ErrCompanyAccountMissing  = errors.New("referral: company account not found")
	ErrInvalidExternalID      = errors.New("referral: invalid external transaction id")
	ErrProfileFieldsRequired  = errors.New("referral: username, country and phone are required")
	ErrLevelDefinitionMissing = errors.New("referral: level definition missing")
)
