// Package chain models the host environment the engine reads from: the slot
// counter, wall-clock time and the reserve-floor function.
package chain

import (
	"sync"
	"time"
)

// DefaultSlotDuration matches a 400ms block cadence.
const DefaultSlotDuration = 400 * time.Millisecond

// Clock exposes the read-only chain counters.
type Clock interface {
	Slot() uint64
	UnixTimestamp() int64
}

// SystemClock derives slots from wall time elapsed since Genesis. Slot never
// decreases, even if the wall clock steps backwards.
type SystemClock struct {
	Genesis      time.Time
	SlotDuration time.Duration
	Now          func() time.Time

	mu   sync.Mutex
	last uint64
}

func NewSystemClock(genesis time.Time, slotDuration time.Duration) *SystemClock {
	if slotDuration <= 0 {
		slotDuration = DefaultSlotDuration
	}
	return &SystemClock{
		Genesis:      genesis,
		SlotDuration: slotDuration,
		Now:          time.Now,
	}
}

func (c *SystemClock) Slot() uint64 {
	elapsed := c.Now().Sub(c.Genesis)
	var slot uint64
	if elapsed > 0 {
		slot = uint64(elapsed / c.SlotDuration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < c.last {
		return c.last
	}
	c.last = slot
	return slot
}

func (c *SystemClock) UnixTimestamp() int64 {
	return c.Now().Unix()
}

// FixedClock returns preset values. Used by tests and replays.
type FixedClock struct {
	CurrentSlot uint64
	Unix        int64
}

func (c *FixedClock) Slot() uint64         { return c.CurrentSlot }
func (c *FixedClock) UnixTimestamp() int64 { return c.Unix }

// Advance moves the slot forward by n.
func (c *FixedClock) Advance(n uint64) { c.CurrentSlot += n }

// TimeWitness seeds Miller-Rabin witnesses from the clock's unix time. Anyone
// who knows the block time knows the witness.
type TimeWitness struct {
	Clock Clock
}

func (w TimeWitness) Seed() uint64 {
	return uint64(w.Clock.UnixTimestamp())
}
