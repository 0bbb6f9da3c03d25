package chain

const (
	// accountStorageOverhead is the per-account metadata the rent formula charges for.
	accountStorageOverhead = 128
	lamportsPerByteYear    = 3480
	exemptionThresholdYrs  = 2
)

// ReserveFunc returns the minimum balance an account of size bytes must keep.
type ReserveFunc func(size uint64) uint64

// RentExemptMinimum is the default ReserveFunc.
func RentExemptMinimum(size uint64) uint64 {
	return (accountStorageOverhead + size) * lamportsPerByteYear * exemptionThresholdYrs
}

// FlatReserve returns a ReserveFunc that ignores size.
func FlatReserve(floor uint64) ReserveFunc {
	return func(uint64) uint64 { return floor }
}
