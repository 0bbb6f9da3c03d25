package services

import (
	"errors"
	"fmt"

	"prime-slot-backend/internal/ledger"
)

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("globals not initialized")
	ErrUserNotInitialized = errors.New("user not initialized")

	// ErrInsufficientPoints is an ErrInsufficientFunds: the participant cannot
	// cover the entry fee.
	ErrInsufficientPoints    = fmt.Errorf("%w: not enough points to draw", ledger.ErrInsufficientFunds)
	ErrInsufficientWonPoints = errors.New("not enough won points to trade")
	ErrClaimTooSoon          = errors.New("claim window has not elapsed")
	ErrNothingToClaim        = errors.New("nothing to claim")
	ErrAirdropDisabled       = errors.New("airdrop is disabled")
)
