package crypto

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/custodia-chain/router/types"
	"github.com/umbracle/fastrlp"
	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidSignature = errors.New("invalid signature values")
	ErrRecoveryFailed   = errors.New("public key recovery failed")
)

// Keccak256 calculates the Keccak256 hash of the input data
func Keccak256(v ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, i := range v {
		h.Write(i)
	}

	return h.Sum(nil)
}

// Keccak256Hash calculates Keccak256 and returns it as a typed hash
func Keccak256Hash(v ...[]byte) types.Hash {
	return types.BytesToHash(Keccak256(v...))
}

// PubKeyToAddress returns the address derived from an uncompressed
// public key: the last 20 bytes of the hash of the x and y coordinates
func PubKeyToAddress(pub *btcec.PublicKey) types.Address {
	return types.BytesToAddress(Keccak256(pub.SerializeUncompressed()[1:])[12:])
}

// Ecrecover recovers the address whose key signed hash. The signature
// is supplied as the (r, s) scalar pair plus a recovery code selecting
// the nonce point's y parity. Zero or out-of-range scalars fail the
// recovery primitive's own precondition checks.
func Ecrecover(hash types.Hash, recoveryCode byte, r, s *btcec.ModNScalar) (types.Address, error) {
	if recoveryCode > 1 {
		return types.ZeroAddress, ErrInvalidSignature
	}

	rBytes, sBytes := r.Bytes(), s.Bytes()

	sig := make([]byte, 65)
	sig[0] = 27 + recoveryCode
	copy(sig[1:33], rBytes[:])
	copy(sig[33:65], sBytes[:])

	pub, _, err := ecdsa.RecoverCompact(sig, hash.Bytes())
	if err != nil {
		return types.ZeroAddress, ErrRecoveryFailed
	}

	return PubKeyToAddress(pub), nil
}

var createAddressArenaPool fastrlp.ArenaPool

// CreateAddress computes the address a creation-style deployment from
// sender occupies at the given account nonce
func CreateAddress(sender types.Address, nonce uint64) types.Address {
	a := createAddressArenaPool.Get()
	defer createAddressArenaPool.Put(a)

	v := a.NewArray()
	v.Set(a.NewCopyBytes(sender.Bytes()))
	v.Set(a.NewUint(nonce))

	return types.BytesToAddress(Keccak256(v.MarshalTo(nil))[12:])
}
