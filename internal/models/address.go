package models

import (
	"fmt"

	"github.com/mr-tron/base58"
)

const AddressLength = 32

// Address is a participant or account identity.
type Address [AddressLength]byte

func ParseAddress(s string) (Address, error) {
	var addr Address
	raw, err := base58.Decode(s)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %v", s, err)
	}
	if len(raw) != AddressLength {
		return addr, fmt.Errorf("invalid address %q: want %d bytes, got %d", s, AddressLength, len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

func (a Address) String() string { return base58.Encode(a[:]) }

func (a Address) IsZero() bool { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
