// Package ledger holds native-value balances. Balances only move through
// checked operations; nothing here wraps or goes negative.
package ledger

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientReserve = fmt.Errorf("%w: balance below reserve floor", ErrInsufficientFunds)
	ErrUnderflow           = errors.New("balance underflow")
	ErrOverflow            = errors.New("balance overflow")
	ErrDivisionByZero      = errors.New("division by zero")
)

// Account is a native-value balance cell. Size is the account's data size
// and decides its reserve floor.
type Account struct {
	Lamports uint64 `json:"lamports"`
	Size     uint64 `json:"size"`
}

// Credit adds amount.
func (a *Account) Credit(amount uint64) error {
	sum, carry := bits.Add64(a.Lamports, amount, 0)
	if carry != 0 {
		return fmt.Errorf("credit %d to %d: %w", amount, a.Lamports, ErrOverflow)
	}
	a.Lamports = sum
	return nil
}

// Debit removes amount.
func (a *Account) Debit(amount uint64) error {
	if amount > a.Lamports {
		return fmt.Errorf("debit %d from %d: %w", amount, a.Lamports, ErrUnderflow)
	}
	a.Lamports -= amount
	return nil
}

// Available is the balance above floor.
func (a *Account) Available(floor uint64) (uint64, error) {
	if a.Lamports < floor {
		return 0, fmt.Errorf("balance %d, floor %d: %w", a.Lamports, floor, ErrInsufficientReserve)
	}
	return a.Lamports - floor, nil
}

// Transfer moves amount from one account to another. Both sides are checked
// before either is touched.
func Transfer(from, to *Account, amount uint64) error {
	if amount > from.Lamports {
		return fmt.Errorf("transfer %d from %d: %w", amount, from.Lamports, ErrInsufficientFunds)
	}
	if _, carry := bits.Add64(to.Lamports, amount, 0); carry != 0 {
		return fmt.Errorf("transfer %d to %d: %w", amount, to.Lamports, ErrOverflow)
	}
	from.Lamports -= amount
	to.Lamports += amount
	return nil
}

// TransferAboveFloor is Transfer that also refuses to take from below the
// source's reserve floor.
func TransferAboveFloor(from, to *Account, amount, floor uint64) error {
	available, err := from.Available(floor)
	if err != nil {
		return err
	}
	if amount > available {
		return fmt.Errorf("transfer %d with %d above floor: %w", amount, available, ErrInsufficientReserve)
	}
	return Transfer(from, to, amount)
}

// MulDiv returns floor(a*b/c) with a 128-bit intermediate. The quotient must
// fit in 64 bits.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, fmt.Errorf("%d*%d/%d: %w", a, b, c, ErrOverflow)
	}
	q, _ := bits.Div64(hi, lo, c)
	return q, nil
}
