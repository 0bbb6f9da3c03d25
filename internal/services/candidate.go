package services

import "prime-slot-backend/internal/models"

const candidateModulus = 100000

// Reduce folds an address into [1, 100000]: the byte sum, wrapped to 32
// bits, mod 100000, plus one.
func Reduce(addr models.Address) uint64 {
	var sum uint32
	for _, b := range addr {
		sum += uint32(b)
	}
	return uint64(sum%candidateModulus) + 1
}

// Compose builds the draw candidate from the slot, the participant, the
// recent participants and the block time. It is a pure function of its
// inputs and carries no entropy beyond them.
func Compose(slot uint64, participant models.Address, recent []models.Address, unix int64) uint64 {
	var history uint64
	for _, p := range recent {
		history += Reduce(p)
	}

	t := unix % candidateModulus
	if t < 0 {
		t += candidateModulus
	}

	return slot + Reduce(participant) + history + uint64(t)
}
