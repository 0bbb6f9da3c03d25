package services

import (
	"prime-slot-backend/internal/chain"
	"prime-slot-backend/internal/config"
	"prime-slot-backend/internal/primality"
)

// NewOracle builds the configured primality test. Miller-Rabin witnesses
// come from clock time and are therefore predictable.
func NewOracle(cfg *config.Config, clock chain.Clock) primality.Oracle {
	if cfg.Primality == config.PrimalityTrial {
		return primality.TrialDivision{}
	}
	return primality.MillerRabin{
		Rounds:  cfg.MillerRabinRounds,
		Witness: chain.TimeWitness{Clock: clock},
	}
}
