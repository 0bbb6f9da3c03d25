package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"prime-slot-backend/internal/ledger"
	"prime-slot-backend/internal/services"
	"prime-slot-backend/internal/store"
)

type apiError struct {
	status  int
	code    string
	message string
}

// Order matters: specific sentinels before the ones they wrap.
var errorTable = []struct {
	err error
	apiError
}{
	{services.ErrInsufficientPoints, apiError{http.StatusBadRequest, "insufficient_points", "Not enough points to draw"}},
	{ledger.ErrInsufficientReserve, apiError{http.StatusConflict, "insufficient_reserve", "Pool cannot cover the payout"}},
	{ledger.ErrInsufficientFunds, apiError{http.StatusBadRequest, "insufficient_funds", "Insufficient funds"}},
	{services.ErrInsufficientWonPoints, apiError{http.StatusBadRequest, "insufficient_won_points", "Not enough won points to trade"}},
	{services.ErrClaimTooSoon, apiError{http.StatusConflict, "claim_too_soon", "Claim window has not elapsed"}},
	{services.ErrNothingToClaim, apiError{http.StatusConflict, "nothing_to_claim", "Nothing to claim"}},
	{services.ErrAlreadyInitialized, apiError{http.StatusConflict, "already_initialized", "Already initialized"}},
	{services.ErrNotInitialized, apiError{http.StatusPreconditionFailed, "not_initialized", "Game is not initialized"}},
	{services.ErrUserNotInitialized, apiError{http.StatusNotFound, "user_not_initialized", "User not initialized"}},
	{services.ErrAirdropDisabled, apiError{http.StatusForbidden, "airdrop_disabled", "Airdrop is disabled"}},
	{store.ErrConflict, apiError{http.StatusConflict, "conflict", "Concurrent update, please retry"}},
	{ledger.ErrOverflow, apiError{http.StatusUnprocessableEntity, "overflow", "Balance overflow"}},
	{ledger.ErrUnderflow, apiError{http.StatusUnprocessableEntity, "underflow", "Balance underflow"}},
}

func classify(err error) apiError {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.apiError
		}
	}
	return apiError{http.StatusInternalServerError, "internal", "Internal error"}
}

func respondError(c *gin.Context, err error) {
	e := classify(err)
	c.JSON(e.status, gin.H{
		"error":   e.message,
		"details": err.Error(),
		"code":    e.code,
	})
}
