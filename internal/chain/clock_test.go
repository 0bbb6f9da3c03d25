package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_SlotIsMonotonic(t *testing.T) {
	genesis := time.Unix(1_700_000_000, 0)
	now := genesis.Add(10 * time.Second)
	clock := NewSystemClock(genesis, 0)
	clock.Now = func() time.Time { return now }

	assert.Equal(t, uint64(25), clock.Slot())
	assert.Equal(t, int64(1_700_000_010), clock.UnixTimestamp())

	now = now.Add(-5 * time.Second)
	assert.Equal(t, uint64(25), clock.Slot(), "slot must not go backwards")

	now = genesis.Add(20 * time.Second)
	assert.Equal(t, uint64(50), clock.Slot())
}

func TestSystemClock_BeforeGenesis(t *testing.T) {
	genesis := time.Unix(1_700_000_000, 0)
	clock := NewSystemClock(genesis, time.Second)
	clock.Now = func() time.Time { return genesis.Add(-time.Hour) }
	assert.Zero(t, clock.Slot())
}

func TestTimeWitness(t *testing.T) {
	clock := &FixedClock{CurrentSlot: 5, Unix: 1234}
	assert.Equal(t, uint64(1234), TimeWitness{Clock: clock}.Seed())
	clock.Advance(3)
	assert.Equal(t, uint64(8), clock.Slot())
}

func TestReserve(t *testing.T) {
	assert.Equal(t, uint64(1_002_240), RentExemptMinimum(16))
	assert.Equal(t, uint64(890_880), RentExemptMinimum(0))
	assert.Equal(t, uint64(42), FlatReserve(42)(9000))
}
