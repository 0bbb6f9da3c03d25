package services

import "prime-slot-backend/internal/ledger"

// drainModulus picks the rare candidates that empty the treasury.
const drainModulus = 100

// PayoutWinner moves the winner's share of the treasury balance above floor.
// A candidate ending in 01 takes everything available; any other prime
// takes power-up of it. The treasury never drops below floor.
func PayoutWinner(treasury, winner *ledger.Account, candidate uint64, powerUp PowerUp, floor uint64) (uint64, bool, error) {
	available, err := treasury.Available(floor)
	if err != nil {
		return 0, false, err
	}

	drained := candidate%drainModulus == 1
	amount := available
	if !drained {
		amount, err = ledger.MulDiv(available, uint64(powerUp), basisPoints)
		if err != nil {
			return 0, false, err
		}
	}

	if err := ledger.TransferAboveFloor(treasury, winner, amount, floor); err != nil {
		return 0, false, err
	}
	return amount, drained, nil
}
