package crypto

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/custodia-chain/router/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeccak256(t *testing.T) {
	// empty-input digest is a fixed constant
	assert.Equal(
		t,
		types.StringToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Keccak256Hash(),
	)

	// hashing split input equals hashing the concatenation
	assert.Equal(
		t,
		Keccak256([]byte("hello world")),
		Keccak256([]byte("hello "), []byte("world")),
	)
}

func TestCreateAddress(t *testing.T) {
	sender := types.StringToAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")

	cases := []struct {
		nonce    uint64
		expected string
	}{
		{0, "0x333c3310824b7c685133f2bedb2ca4b8b4df633d"},
		{1, "0x8bda78331c916a08481428e4b07c96d3e916d165"},
		{2, "0xc9ddedf451bc62ce88bf9292afb13df35b670699"},
	}

	for _, c := range cases {
		assert.Equal(t, types.StringToAddress(c.expected), CreateAddress(sender, c.nonce))
	}
}

func TestEcrecover(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	expected := PubKeyToAddress(priv.PubKey())
	hash := Keccak256Hash([]byte("authorize"))

	sig, err := ecdsa.SignCompact(priv, hash.Bytes(), false)
	require.NoError(t, err)

	var r, s btcec.ModNScalar

	require.False(t, r.SetByteSlice(sig[1:33]))
	require.False(t, s.SetByteSlice(sig[33:65]))

	recovered, err := Ecrecover(hash, sig[0]-27, &r, &s)
	require.NoError(t, err)
	assert.Equal(t, expected, recovered)

	// a different message must not recover the signer
	other, err := Ecrecover(Keccak256Hash([]byte("forged")), sig[0]-27, &r, &s)
	if err == nil {
		assert.NotEqual(t, expected, other)
	}
}

func TestEcrecoverRejectsZeroScalars(t *testing.T) {
	var zero, one btcec.ModNScalar

	one.SetInt(1)

	hash := Keccak256Hash([]byte("zero"))

	_, err := Ecrecover(hash, 0, &zero, &one)
	assert.Error(t, err)

	_, err = Ecrecover(hash, 0, &one, &zero)
	assert.Error(t, err)
}
