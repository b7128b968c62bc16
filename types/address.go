package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	AddressLength = 20
	HashLength    = 32
)

// Address is a 20 byte account or contract identifier
type Address [AddressLength]byte

// ZeroAddress doubles as the native-asset identifier and the
// "unset" escape target
var ZeroAddress = Address{}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero checks if the address is the zero address
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	buf := StringToBytes(string(input))
	if len(buf) != AddressLength {
		return fmt.Errorf("incorrect address length %d", len(buf))
	}

	copy(a[:], buf)

	return nil
}

// BytesToAddress sets the last 20 bytes of b to the address,
// left-padding short input with zeroes
func BytesToAddress(b []byte) Address {
	var a Address

	size := len(b)
	min := min(size, AddressLength)

	copy(a[AddressLength-min:], b[size-min:])

	return a
}

func StringToAddress(str string) Address {
	return BytesToAddress(StringToBytes(str))
}

// Hash is a 32 byte digest or storage slot value
type Hash [HashLength]byte

var ZeroHash = Hash{}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(input []byte) error {
	buf := StringToBytes(string(input))
	if len(buf) != HashLength {
		return fmt.Errorf("incorrect hash length %d", len(buf))
	}

	copy(h[:], buf)

	return nil
}

func BytesToHash(b []byte) Hash {
	var h Hash

	size := len(b)
	min := min(size, HashLength)

	copy(h[HashLength-min:], b[size-min:])

	return h
}

func StringToHash(str string) Hash {
	return BytesToHash(StringToBytes(str))
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// StringToBytes decodes a possibly 0x-prefixed hex string,
// tolerating an odd number of nibbles
func StringToBytes(str string) []byte {
	str = strings.TrimPrefix(str, "0x")
	if len(str)%2 == 1 {
		str = "0" + str
	}

	b, _ := hex.DecodeString(str)

	return b
}
