package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_CreditDebit(t *testing.T) {
	acct := &Account{Lamports: 100}

	require.NoError(t, acct.Credit(50))
	assert.Equal(t, uint64(150), acct.Lamports)

	require.NoError(t, acct.Debit(150))
	assert.Zero(t, acct.Lamports)

	err := acct.Debit(1)
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Zero(t, acct.Lamports)

	acct.Lamports = math.MaxUint64
	assert.ErrorIs(t, acct.Credit(1), ErrOverflow)
	assert.Equal(t, uint64(math.MaxUint64), acct.Lamports)
}

func TestAccount_Available(t *testing.T) {
	acct := &Account{Lamports: 1000}

	got, err := acct.Available(400)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), got)

	_, err = acct.Available(1001)
	assert.ErrorIs(t, err, ErrInsufficientReserve)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestTransfer_IsAllOrNothing(t *testing.T) {
	from := &Account{Lamports: 10}
	to := &Account{Lamports: 5}

	require.NoError(t, Transfer(from, to, 4))
	assert.Equal(t, uint64(6), from.Lamports)
	assert.Equal(t, uint64(9), to.Lamports)

	assert.ErrorIs(t, Transfer(from, to, 7), ErrInsufficientFunds)
	assert.Equal(t, uint64(6), from.Lamports)
	assert.Equal(t, uint64(9), to.Lamports)

	full := &Account{Lamports: math.MaxUint64}
	assert.ErrorIs(t, Transfer(from, full, 1), ErrOverflow)
	assert.Equal(t, uint64(6), from.Lamports)
}

func TestTransferAboveFloor(t *testing.T) {
	treasury := &Account{Lamports: 1500}
	winner := &Account{}

	err := TransferAboveFloor(treasury, winner, 600, 1000)
	assert.True(t, errors.Is(err, ErrInsufficientReserve))
	assert.Equal(t, uint64(1500), treasury.Lamports)

	require.NoError(t, TransferAboveFloor(treasury, winner, 500, 1000))
	assert.Equal(t, uint64(1000), treasury.Lamports)
	assert.Equal(t, uint64(500), winner.Lamports)
}

func TestMulDiv(t *testing.T) {
	got, err := MulDiv(math.MaxUint64, 7500, 10000)
	require.NoError(t, err)
	assert.Equal(t, uint64(13835058055282163711), got)

	got, err = MulDiv(1000, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), got)

	_, err = MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = MulDiv(math.MaxUint64, 2, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}
