package schnorr

import (
	"bytes"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/custodia-chain/router/types"
)

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// PublicKey is a secp256k1 point usable as an authoritative key. Only
// its x-coordinate is carried on the wire; the y-coordinate is fixed to
// even parity so the key fits the single-word recovery primitive.
//
// A valid key additionally requires a non-zero x-coordinate which is
// mutual to the base field and the scalar group (it reduces to itself
// modulo the group order), letting the x-coordinate be reused as the
// ECDSA r value during verification.
type PublicKey struct {
	x types.Hash

	// x interpreted as a scalar, exactly equal to x by construction
	xScalar btcec.ModNScalar
}

// NewPublicKey wraps a secp256k1 point, returning an error if the point
// does not satisfy the key requirements above
func NewPublicKey(point *btcec.PublicKey) (*PublicKey, error) {
	compressed := point.SerializeCompressed()
	if compressed[0] != 0x02 {
		// odd y-coordinate
		return nil, ErrInvalidPublicKey
	}

	return publicKeyFromX(compressed[1:33])
}

// PublicKeyFromBytes parses the 32-byte x-coordinate representation,
// confirming a curve point with an even y-coordinate exists for it
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	if len(b) != types.HashLength {
		return nil, ErrInvalidPublicKey
	}

	if _, err := btcec.ParsePubKey(append([]byte{0x02}, b...)); err != nil {
		return nil, ErrInvalidPublicKey
	}

	return publicKeyFromX(b)
}

func publicKeyFromX(x []byte) (*PublicKey, error) {
	key := &PublicKey{x: types.BytesToHash(x)}

	if bytes.Equal(key.x.Bytes(), types.ZeroHash.Bytes()) {
		return nil, ErrInvalidPublicKey
	}

	if overflow := key.xScalar.SetByteSlice(x); overflow {
		// the x-coordinate is not mutual to both fields
		return nil, ErrInvalidPublicKey
	}

	return key, nil
}

// Bytes returns the 32-byte x-coordinate representation
func (k *PublicKey) Bytes() types.Hash {
	return k.x
}

func (k *PublicKey) Equal(other *PublicKey) bool {
	return k.x == other.x
}
