package services

import (
	"math"

	"prime-slot-backend/internal/ledger"
)

// RecalculateRate is lamports per won point backing the staking pool. With
// no points outstanding the rate is zero.
func RecalculateRate(stakingLamports, totalWonPoints uint64) float64 {
	rate, err := divide(stakingLamports, totalWonPoints)
	if err != nil {
		return 0
	}
	return rate
}

func divide(a, b uint64) (float64, error) {
	if b == 0 {
		return 0, ledger.ErrDivisionByZero
	}
	return float64(a) / float64(b), nil
}

// tradeValue is the lamports TradeUnit won points fetch at rate.
func tradeValue(rate float64) uint64 {
	v := math.Floor(float64(TradeUnit) * rate)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(v)
}
