package schnorr

import (
	"crypto/rand"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(t *testing.T) []byte {
	t.Helper()

	msg := make([]byte, 1+int(randByte(t))%255)

	_, err := rand.Read(msg)
	require.NoError(t, err)

	return msg
}

func randByte(t *testing.T) byte {
	t.Helper()

	var b [1]byte

	_, err := rand.Read(b[:])
	require.NoError(t, err)

	return b[0]
}

func TestOddKeyRejected(t *testing.T) {
	for {
		priv, err := btcec.NewPrivateKey()
		require.NoError(t, err)

		if priv.PubKey().SerializeCompressed()[0] != 0x03 {
			continue
		}

		_, err = NewPublicKey(priv.PubKey())
		assert.ErrorIs(t, err, ErrInvalidPublicKey)

		return
	}
}

func TestPublicKeyFromBytes(t *testing.T) {
	_, key, err := GenerateKey()
	require.NoError(t, err)

	parsed, err := PublicKeyFromBytes(key.Bytes().Bytes())
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))

	// the zero key must be rejected
	_, err = PublicKeyFromBytes(make([]byte, 32))
	assert.Error(t, err)

	// wrong length must be rejected
	_, err = PublicKeyFromBytes(make([]byte, 31))
	assert.Error(t, err)
}

func TestZeroChallengeRejected(t *testing.T) {
	var zero, one btcec.ModNScalar

	one.SetInt(1)

	_, err := NewSignature(&zero, &one)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// a zero response is legal, the response is never inverted
	_, err = NewSignature(&one, &zero)
	assert.NoError(t, err)
}

func TestSignatureSerialization(t *testing.T) {
	priv, _, err := GenerateKey()
	require.NoError(t, err)

	sig, err := Sign(priv, []byte("serialize"))
	require.NoError(t, err)

	parsed, err := ParseSignature(sig.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sig.Bytes(), parsed.Bytes())

	_, err = ParseSignature(sig.Bytes()[:63])
	assert.Error(t, err)

	// non-canonical scalars must be rejected
	overflowed := make([]byte, SignatureLength)
	for i := 0; i < 32; i++ {
		overflowed[i] = 0xff
	}

	_, err = ParseSignature(overflowed)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	for i := 0; i < 16; i++ {
		priv, key, err := GenerateKey()
		require.NoError(t, err)

		msg := testMessage(t)

		sig, err := Sign(priv, msg)
		require.NoError(t, err)
		assert.True(t, sig.Verify(key, msg))

		// zero response with an honest challenge must not verify
		var zero btcec.ModNScalar

		zeroS, err := NewSignature(&sig.c, &zero)
		require.NoError(t, err)
		assert.False(t, zeroS.Verify(key, msg))

		// mutated message
		mutated := append([]byte{}, msg...)
		mutated[0]++
		assert.False(t, sig.Verify(key, mutated))

		// mutated challenge
		var one btcec.ModNScalar

		one.SetInt(1)

		var mutatedC btcec.ModNScalar

		mutatedC.Add2(&sig.c, &one)

		if !mutatedC.IsZero() {
			mc, err := NewSignature(&mutatedC, &sig.s)
			require.NoError(t, err)
			assert.False(t, mc.Verify(key, msg))
		}

		// mutated response
		var mutatedS btcec.ModNScalar

		mutatedS.Add2(&sig.s, &one)

		ms, err := NewSignature(&sig.c, &mutatedS)
		require.NoError(t, err)
		assert.False(t, ms.Verify(key, msg))
	}
}

// The premise: recovering over (-s*x, even, x, -c*x) yields the address
// of the nonce point used by the signer.
func TestNonceRecoveryPremise(t *testing.T) {
	priv, key, err := GenerateKey()
	require.NoError(t, err)

	nonce, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	msg := testMessage(t)

	nonceAddr := crypto.PubKeyToAddress(nonce.PubKey())
	c := Challenge(nonceAddr, key, msg)

	var s btcec.ModNScalar

	s.Mul2(&c, &priv.Key).Add(&nonce.Key)

	var sa, ca btcec.ModNScalar

	sa.Mul2(&s, &key.xScalar).Negate()
	ca.Mul2(&c, &key.xScalar).Negate()

	saBytes := sa.Bytes()

	recovered, err := crypto.Ecrecover(types.BytesToHash(saBytes[:]), 0, &key.xScalar, &ca)
	require.NoError(t, err)
	assert.Equal(t, nonceAddr, recovered)
}
