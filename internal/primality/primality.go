// Package primality decides whether a draw candidate is prime.
//
// Neither oracle is cryptographically sound for the game. TrialDivision is
// exact but its input is predictable. MillerRabin draws its witness from an
// injected WitnessSource, by default the wall clock, so a participant who can
// guess the witness can aim for a composite that passes (a Carmichael number
// with a known strong liar, for example).
package primality

import "math/bits"

// Oracle reports whether n is prime.
type Oracle interface {
	IsPrime(n uint64) bool
}

// WitnessSource supplies the seed a Miller-Rabin round turns into a witness.
type WitnessSource interface {
	Seed() uint64
}

// FixedWitness always returns the same seed.
type FixedWitness uint64

func (w FixedWitness) Seed() uint64 { return uint64(w) }

// TrialDivision is an exact oracle for small candidates.
type TrialDivision struct{}

func (TrialDivision) IsPrime(n uint64) bool {
	if small, ok := smallCase(n); ok {
		return small
	}
	// 6k-1 and 6k+1; i <= n/i keeps i*i from overflowing.
	for i := uint64(5); i <= n/i; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// MillerRabin is the probabilistic oracle. Every round uses a witness derived
// from Witness; a single failing round rejects.
type MillerRabin struct {
	Rounds  int
	Witness WitnessSource
}

func (m MillerRabin) IsPrime(n uint64) bool {
	if small, ok := smallCase(n); ok {
		return small
	}

	d := n - 1
	for d%2 == 0 {
		d /= 2
	}

	rounds := m.Rounds
	if rounds < 1 {
		rounds = 1
	}
	witness := m.Witness
	if witness == nil {
		witness = FixedWitness(0)
	}
	for i := 0; i < rounds; i++ {
		a := 2 + witness.Seed()%(n-3)
		if !strongProbablePrime(a, d, n) {
			return false
		}
	}
	return true
}

// strongProbablePrime runs one round for witness a, where d is the odd part
// of n-1.
func strongProbablePrime(a, d, n uint64) bool {
	x := PowMod(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}
	for d != n-1 {
		x = MulMod(x, x, n)
		d *= 2
		if x == 1 {
			return false
		}
		if x == n-1 {
			return true
		}
	}
	return false
}

func smallCase(n uint64) (prime bool, decided bool) {
	switch {
	case n <= 1:
		return false, true
	case n <= 3:
		return true, true
	case n%2 == 0 || n%3 == 0:
		return false, true
	}
	return false, false
}

// MulMod returns a*b mod m using a 128-bit intermediate product.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// PowMod returns base^exp mod m by square-and-multiply.
func PowMod(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		exp >>= 1
		base = MulMod(base, base, m)
	}
	return result
}
