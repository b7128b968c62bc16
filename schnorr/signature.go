package schnorr

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/types"
)

const SignatureLength = 64

var (
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signature is a Schnorr (challenge, response) scalar pair over the
// keys defined in this package.
//
// The challenge commits to the nonce point solely by its address form,
// which is what the recovery primitive yields during verification.
type Signature struct {
	c btcec.ModNScalar
	s btcec.ModNScalar
}

// NewSignature builds a signature from its scalars. A zero challenge is
// rejected as it voids the verification equation. A zero response is
// legal since the response is never inverted.
func NewSignature(c, s *btcec.ModNScalar) (*Signature, error) {
	if c.IsZero() {
		return nil, ErrInvalidSignature
	}

	sig := &Signature{}
	sig.c.Set(c)
	sig.s.Set(s)

	return sig, nil
}

// ParseSignature decodes the 64-byte c || s representation, requiring
// both scalars to be canonical
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureLength {
		return nil, ErrInvalidSignature
	}

	var c, s btcec.ModNScalar

	if overflow := c.SetByteSlice(b[:32]); overflow {
		return nil, ErrInvalidSignature
	}

	if overflow := s.SetByteSlice(b[32:]); overflow {
		return nil, ErrInvalidSignature
	}

	return NewSignature(&c, &s)
}

// Bytes returns the 64-byte c || s representation
func (sig *Signature) Bytes() []byte {
	b := make([]byte, 0, SignatureLength)

	cBytes, sBytes := sig.c.Bytes(), sig.s.Bytes()
	b = append(b, cBytes[:]...)
	b = append(b, sBytes[:]...)

	return b
}

// Challenge computes the challenge scalar binding the nonce point's
// address form, the public key, and the message
func Challenge(nonceAddr types.Address, key *PublicKey, message []byte) btcec.ModNScalar {
	digest := crypto.Keccak256(nonceAddr.Bytes(), key.Bytes().Bytes(), message)

	var c btcec.ModNScalar
	c.SetByteSlice(digest)

	return c
}

// Verify checks the signature against the key and message.
//
// The Schnorr verification equation is reformulated as a point recovery
// solvable with the ECDSA recovery primitive: with the key's
// x-coordinate serving as the ECDSA r value, recovering over
// (-s*x, even, x, -c*x) yields the address of the nonce point R. The
// signature is valid iff the challenge recomputed over that address
// matches. Any recovery failure fails closed.
func (sig *Signature) Verify(key *PublicKey, message []byte) bool {
	var sa, ca btcec.ModNScalar

	sa.Mul2(&sig.s, &key.xScalar).Negate()
	ca.Mul2(&sig.c, &key.xScalar).Negate()

	// sa is passed as the message digest of the recovery, ca as the
	// ECDSA s. A zero ca is rejected by the primitive itself.
	saBytes := sa.Bytes()

	nonceAddr, err := crypto.Ecrecover(types.BytesToHash(saBytes[:]), 0, &key.xScalar, &ca)
	if err != nil {
		return false
	}

	expected := Challenge(nonceAddr, key, message)

	return expected.Equals(&sig.c)
}

// Sign produces a signature over the message with a fresh random nonce.
// The private key's public point must satisfy the PublicKey
// requirements; Sign is the off-chain half of Verify and exists for
// tooling and tests, the production signer being a threshold protocol.
func Sign(priv *btcec.PrivateKey, message []byte) (*Signature, error) {
	key, err := NewPublicKey(priv.PubKey())
	if err != nil {
		return nil, err
	}

	nonce, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}

	c := Challenge(crypto.PubKeyToAddress(nonce.PubKey()), key, message)

	// s = k + c * x
	var s btcec.ModNScalar
	s.Mul2(&c, &priv.Key).Add(&nonce.Key)

	return NewSignature(&c, &s)
}

// GenerateKey generates a private key whose public point satisfies the
// PublicKey requirements
func GenerateKey() (*btcec.PrivateKey, *PublicKey, error) {
	for {
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, nil, err
		}

		key, err := NewPublicKey(priv.PubKey())
		if err != nil {
			continue
		}

		return priv, key, nil
	}
}
