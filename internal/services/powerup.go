package services

import "fmt"

// PowerUp is a payout multiplier in basis points.
type PowerUp uint64

const (
	basisPoints = 10000

	PowerUpBase   PowerUp = 1000 // 0.10
	PowerUpShort  PowerUp = 2500 // 0.25
	PowerUpMedium PowerUp = 5000 // 0.50
	PowerUpLong   PowerUp = 7500 // 0.75
)

// PowerUpFor scales with the slots since the participant's last win. A
// participant who never won gets the base multiplier.
func PowerUpFor(slot, lastWonSlot uint64) PowerUp {
	if lastWonSlot == 0 || slot < lastWonSlot {
		return PowerUpBase
	}
	switch gap := slot - lastWonSlot; {
	case gap < 100:
		return PowerUpBase
	case gap < 300:
		return PowerUpShort
	case gap < 600:
		return PowerUpMedium
	default:
		return PowerUpLong
	}
}

func (p PowerUp) Float() float64 {
	return float64(p) / basisPoints
}

func (p PowerUp) String() string {
	return fmt.Sprintf("%.2f", p.Float())
}
