package router

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/helper/kvdb"
	"github.com/custodia-chain/router/host"
	"github.com/custodia-chain/router/host/hostmem"
	"github.com/custodia-chain/router/schnorr"
	"github.com/custodia-chain/router/store"
	"github.com/custodia-chain/router/types"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	routerAddr  = types.StringToAddress("0x00000000000000000000000000000000000000ee")
	relayerAddr = types.StringToAddress("0x00000000000000000000000000000000000000fe")
	aliceAddr   = types.StringToAddress("0x0000000000000000000000000000000000000a01")
	bobAddr     = types.StringToAddress("0x0000000000000000000000000000000000000a02")
	tokenAddr   = types.StringToAddress("0x0000000000000000000000000000000000000b01")
	targetAddr  = types.StringToAddress("0x0000000000000000000000000000000000000c01")
)

func newTestRouter(t *testing.T) (*Router, *hostmem.Host, *btcec.PrivateKey) {
	t.Helper()

	priv, key, err := schnorr.GenerateKey()
	require.NoError(t, err)

	h := hostmem.NewHost(hclog.NewNullLogger(), routerAddr)

	r, err := NewRouter(hclog.NewNullLogger(), h, key)
	require.NoError(t, err)

	return r, h, priv
}

func sign(t *testing.T, priv *btcec.PrivateKey, msg []byte) *schnorr.Signature {
	t.Helper()

	sig, err := schnorr.Sign(priv, msg)
	require.NoError(t, err)

	return sig
}

func addressOut(to types.Address, amount int64) OutInstruction {
	return OutInstruction{
		Kind:   AddressDestination,
		To:     to,
		Amount: big.NewInt(amount),
	}
}

func signedExecute(
	t *testing.T,
	r *Router,
	priv *btcec.PrivateKey,
	coin types.Address,
	fee *big.Int,
	outs []OutInstruction,
) ([]byte, error) {
	t.Helper()

	msg, err := ExecuteMessage(r.NextNonce(), coin, fee, outs)
	require.NoError(t, err)

	return r.Execute(relayerAddr, coin, fee, outs, sign(t, priv, msg))
}

func TestInitialState(t *testing.T) {
	r, h, _ := newTestRouter(t)

	// nonce 0 was consumed by the initial key
	assert.Equal(t, uint64(1), r.NextNonce())
	assert.Equal(t, types.ZeroAddress, r.EscapedTo())
	assert.Equal(t, uint64(1), h.Nonce(routerAddr))
}

func TestUpdateKey(t *testing.T) {
	r, _, priv := newTestRouter(t)

	_, newKey, err := schnorr.GenerateKey()
	require.NoError(t, err)

	msg, err := UpdateKeyMessage(r.NextNonce(), newKey)
	require.NoError(t, err)

	sig := sign(t, priv, msg)

	require.NoError(t, r.UpdateKey(newKey, sig))
	assert.True(t, r.Key().Equal(newKey))
	assert.Equal(t, uint64(2), r.NextNonce())

	// the consumed signature can never authorize again
	assert.ErrorIs(t, r.UpdateKey(newKey, sig), ErrInvalidSignature)
	assert.Equal(t, uint64(2), r.NextNonce())
}

func TestUpdateKeyWrongNonce(t *testing.T) {
	r, _, priv := newTestRouter(t)

	_, newKey, err := schnorr.GenerateKey()
	require.NoError(t, err)

	// signed for a nonce the engine is not at
	msg, err := UpdateKeyMessage(r.NextNonce()+1, newKey)
	require.NoError(t, err)

	assert.ErrorIs(t, r.UpdateKey(newKey, sign(t, priv, msg)), ErrInvalidSignature)
	assert.Equal(t, uint64(1), r.NextNonce())
}

func TestUpdateKeyWrongKey(t *testing.T) {
	r, _, _ := newTestRouter(t)

	otherPriv, newKey, err := schnorr.GenerateKey()
	require.NoError(t, err)

	msg, err := UpdateKeyMessage(r.NextNonce(), newKey)
	require.NoError(t, err)

	// signed by a key that is not the authoritative one
	assert.ErrorIs(t, r.UpdateKey(newKey, sign(t, otherPriv, msg)), ErrInvalidSignature)
}

func TestExecuteNative(t *testing.T) {
	r, h, priv := newTestRouter(t)
	h.SetBalance(routerAddr, big.NewInt(1000))

	// a recipient demanding more gas than the plain-send budget
	hostile := types.StringToAddress("0x0000000000000000000000000000000000000bad")
	h.SetCode(hostile, func(ctx *hostmem.CallContext) ([]byte, error) {
		if !ctx.UseGas(100000) {
			return nil, host.ErrOutOfGas
		}

		return nil, nil
	})

	outs := []OutInstruction{
		addressOut(aliceAddr, 100),
		addressOut(hostile, 200),
	}

	results, err := signedExecute(t, r, priv, types.ZeroAddress, big.NewInt(10), outs)
	require.NoError(t, err)

	// exactly the well-behaved instruction succeeded
	assert.Equal(t, []byte{0x1}, results)
	assert.Equal(t, big.NewInt(100), h.Balance(aliceAddr))
	assert.Equal(t, big.NewInt(0), h.Balance(hostile))

	// the fee is still paid and the nonce still advanced
	assert.Equal(t, big.NewInt(10), h.Balance(relayerAddr))
	assert.Equal(t, uint64(2), r.NextNonce())
	assert.Equal(t, big.NewInt(890), h.Balance(routerAddr))
}

func TestExecuteWrongNonce(t *testing.T) {
	r, h, priv := newTestRouter(t)
	h.SetBalance(routerAddr, big.NewInt(1000))

	outs := []OutInstruction{addressOut(aliceAddr, 1)}

	msg, err := ExecuteMessage(r.NextNonce()+1, types.ZeroAddress, big.NewInt(0), outs)
	require.NoError(t, err)

	_, err = r.Execute(relayerAddr, types.ZeroAddress, big.NewInt(0), outs, sign(t, priv, msg))
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, uint64(1), r.NextNonce())
	assert.Equal(t, big.NewInt(0), h.Balance(aliceAddr))
}

func TestExecuteToken(t *testing.T) {
	r, h, priv := newTestRouter(t)

	token := hostmem.NewToken(h, tokenAddr, hostmem.TokenStandard)
	token.Mint(routerAddr, big.NewInt(1000))

	outs := []OutInstruction{
		addressOut(aliceAddr, 300),
		addressOut(bobAddr, 200),
	}

	results, err := signedExecute(t, r, priv, tokenAddr, big.NewInt(50), outs)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x3}, results)
	assert.Equal(t, big.NewInt(300), token.BalanceOf(aliceAddr))
	assert.Equal(t, big.NewInt(200), token.BalanceOf(bobAddr))
	assert.Equal(t, big.NewInt(50), token.BalanceOf(relayerAddr))
	assert.Equal(t, big.NewInt(450), token.BalanceOf(routerAddr))
}

func TestExecuteTokenReturnShapes(t *testing.T) {
	cases := []struct {
		name      string
		mode      hostmem.TokenMode
		succeeded bool
	}{
		{"no return data", hostmem.TokenNoReturn, true},
		{"returns false", hostmem.TokenReturnsFalse, false},
		{"garbage return", hostmem.TokenGarbageReturn, false},
		{"reverts", hostmem.TokenReverts, false},
		{"gas guzzler", hostmem.TokenGasGuzzler, false},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			r, h, priv := newTestRouter(t)

			token := hostmem.NewToken(h, tokenAddr, c.mode)
			token.Mint(routerAddr, big.NewInt(1000))

			results, err := signedExecute(
				t, r, priv, tokenAddr, big.NewInt(0),
				[]OutInstruction{addressOut(aliceAddr, 10)},
			)
			require.NoError(t, err)

			if c.succeeded {
				assert.Equal(t, []byte{0x1}, results)
			} else {
				assert.Equal(t, []byte{0x0}, results)
			}

			// the batch completed and consumed its nonce either way
			assert.Equal(t, uint64(2), r.NextNonce())
		})
	}
}

func TestExecuteNativeCodeOut(t *testing.T) {
	r, h, priv := newTestRouter(t)
	h.SetBalance(routerAddr, big.NewInt(1000))

	predicted := r.PredictDeploymentAddress()
	code := []byte{0x60, 0x80}

	outs := []OutInstruction{{
		Kind:   CodeDestination,
		Code:   &CodeParams{GasLimit: 100000, Code: code},
		Amount: big.NewInt(400),
	}}

	results, err := signedExecute(t, r, priv, types.ZeroAddress, big.NewInt(0), outs)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x1}, results)
	assert.Equal(t, code, h.CodeBlobAt(predicted))
	assert.Equal(t, big.NewInt(400), h.Balance(predicted))
}

func TestExecuteTokenCodeOut(t *testing.T) {
	r, h, priv := newTestRouter(t)

	token := hostmem.NewToken(h, tokenAddr, hostmem.TokenStandard)
	token.Mint(routerAddr, big.NewInt(1000))

	// the address is computable before any code exists there
	predicted := r.PredictDeploymentAddress()
	code := []byte{0x60, 0x80}

	outs := []OutInstruction{{
		Kind:   CodeDestination,
		Code:   &CodeParams{GasLimit: 100000, Code: code},
		Amount: big.NewInt(250),
	}}

	results, err := signedExecute(t, r, priv, tokenAddr, big.NewInt(0), outs)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x1}, results)

	// the pre-transfer landed exactly where the deployment did
	assert.Equal(t, code, h.CodeBlobAt(predicted))
	assert.Equal(t, big.NewInt(250), token.BalanceOf(predicted))
}

func TestExecuteCodeOutOutOfGas(t *testing.T) {
	r, h, priv := newTestRouter(t)
	h.SetBalance(routerAddr, big.NewInt(1000))

	predicted := r.PredictDeploymentAddress()

	outs := []OutInstruction{
		{
			Kind:   CodeDestination,
			Code:   &CodeParams{GasLimit: 1000, Code: []byte{0x60}},
			Amount: big.NewInt(100),
		},
		addressOut(aliceAddr, 50),
	}

	results, err := signedExecute(t, r, priv, types.ZeroAddress, big.NewInt(0), outs)
	require.NoError(t, err)

	// deployment failure is isolated, the second instruction landed
	assert.Equal(t, []byte{0x2}, results)
	assert.Equal(t, big.NewInt(50), h.Balance(aliceAddr))

	// the failed attempt rolled back the counter, prediction is stable
	assert.Equal(t, predicted, r.PredictDeploymentAddress())
}

func TestReentrantExecute(t *testing.T) {
	r, h, priv := newTestRouter(t)
	h.SetBalance(routerAddr, big.NewInt(1000))

	var innerErr error

	reentrant := types.StringToAddress("0x0000000000000000000000000000000000000bad")
	h.SetCode(reentrant, func(ctx *hostmem.CallContext) ([]byte, error) {
		_, innerErr = r.Execute(
			relayerAddr,
			types.ZeroAddress,
			big.NewInt(0),
			[]OutInstruction{addressOut(bobAddr, 1)},
			nil,
		)

		return nil, nil
	})

	outs := []OutInstruction{
		addressOut(reentrant, 100),
		addressOut(aliceAddr, 100),
	}

	results, err := signedExecute(t, r, priv, types.ZeroAddress, big.NewInt(7), outs)
	require.NoError(t, err)

	// the nested attempt was rejected outright
	assert.ErrorIs(t, innerErr, ErrReentrantCall)

	// and the outer batch was unaffected by it
	assert.Equal(t, []byte{0x3}, results)
	assert.Equal(t, big.NewInt(100), h.Balance(aliceAddr))
	assert.Equal(t, big.NewInt(7), h.Balance(relayerAddr))
	assert.Equal(t, big.NewInt(0), h.Balance(bobAddr))
	assert.Equal(t, uint64(2), r.NextNonce())
}

func TestEscapeHatch(t *testing.T) {
	r, h, priv := newTestRouter(t)
	h.SetBalance(routerAddr, big.NewInt(900))

	token := hostmem.NewToken(h, tokenAddr, hostmem.TokenStandard)
	token.Mint(routerAddr, big.NewInt(600))

	// a sweep before the hatch is invoked fails
	assert.ErrorIs(t, r.Escape(types.ZeroAddress), ErrNotEscaped)

	// a null target fails
	msg, err := EscapeHatchMessage(r.NextNonce(), types.ZeroAddress)
	require.NoError(t, err)
	assert.ErrorIs(
		t,
		r.EscapeHatch(types.ZeroAddress, sign(t, priv, msg)),
		ErrInvalidEscapeTarget,
	)

	msg, err = EscapeHatchMessage(r.NextNonce(), targetAddr)
	require.NoError(t, err)
	require.NoError(t, r.EscapeHatch(targetAddr, sign(t, priv, msg)))
	assert.Equal(t, targetAddr, r.EscapedTo())

	// no further authorized action verifies, correctly signed or not
	_, newKey, err := schnorr.GenerateKey()
	require.NoError(t, err)

	updateMsg, err := UpdateKeyMessage(r.NextNonce(), newKey)
	require.NoError(t, err)
	assert.ErrorIs(t, r.UpdateKey(newKey, sign(t, priv, updateMsg)), ErrEscaped)

	execMsg, err := ExecuteMessage(
		r.NextNonce(), types.ZeroAddress, big.NewInt(0),
		[]OutInstruction{addressOut(aliceAddr, 1)},
	)
	require.NoError(t, err)
	_, err = r.Execute(
		relayerAddr, types.ZeroAddress, big.NewInt(0),
		[]OutInstruction{addressOut(aliceAddr, 1)},
		sign(t, priv, execMsg),
	)
	assert.ErrorIs(t, err, ErrEscaped)

	hatchMsg, err := EscapeHatchMessage(r.NextNonce(), aliceAddr)
	require.NoError(t, err)
	assert.ErrorIs(t, r.EscapeHatch(aliceAddr, sign(t, priv, hatchMsg)), ErrEscaped)

	// the permissionless sweep drains both assets
	require.NoError(t, r.Escape(types.ZeroAddress))
	assert.Equal(t, big.NewInt(900), h.Balance(targetAddr))
	assert.Equal(t, big.NewInt(0), h.Balance(routerAddr))

	require.NoError(t, r.Escape(tokenAddr))
	assert.Equal(t, big.NewInt(600), token.BalanceOf(targetAddr))
	assert.Equal(t, big.NewInt(0), token.BalanceOf(routerAddr))
}

func TestInInstructionNative(t *testing.T) {
	r, h, _ := newTestRouter(t)

	sub := r.Subscribe()
	defer sub.Unsubscribe()

	// amount not matching the attached value is rejected
	err := r.InInstruction(aliceAddr, big.NewInt(5), types.ZeroAddress, big.NewInt(10), nil)
	assert.ErrorIs(t, err, ErrAmountMismatch)

	// the host credits value ahead of the call, as the execution
	// environment does
	h.SetBalance(routerAddr, big.NewInt(10))

	instruction := []byte{0xde, 0xad}
	require.NoError(
		t,
		r.InInstruction(aliceAddr, big.NewInt(10), types.ZeroAddress, big.NewInt(10), instruction),
	)

	event := <-sub.GetEvent()
	assert.Equal(t, EventInInstruction, event.Type)
	assert.Equal(t, aliceAddr, event.From)
	assert.Equal(t, types.ZeroAddress, event.Coin)
	assert.Equal(t, big.NewInt(10), event.Amount)
	assert.Equal(t, instruction, event.Instruction)
}

func TestInInstructionToken(t *testing.T) {
	r, h, _ := newTestRouter(t)

	token := hostmem.NewToken(h, tokenAddr, hostmem.TokenStandard)
	token.Mint(aliceAddr, big.NewInt(100))

	require.NoError(t, r.InInstruction(aliceAddr, nil, tokenAddr, big.NewInt(60), nil))
	assert.Equal(t, big.NewInt(60), token.BalanceOf(routerAddr))
	assert.Equal(t, big.NewInt(40), token.BalanceOf(aliceAddr))

	// pulling more than the caller holds fails
	err := r.InInstruction(aliceAddr, nil, tokenAddr, big.NewInt(500), nil)
	assert.ErrorIs(t, err, ErrTokenPull)
}

func TestExecuteEvents(t *testing.T) {
	r, h, priv := newTestRouter(t)
	h.SetBalance(routerAddr, big.NewInt(100))

	sub := r.Subscribe()
	defer sub.Unsubscribe()

	outs := []OutInstruction{addressOut(aliceAddr, 30)}

	msg, err := ExecuteMessage(r.NextNonce(), types.ZeroAddress, big.NewInt(0), outs)
	require.NoError(t, err)

	_, err = r.Execute(relayerAddr, types.ZeroAddress, big.NewInt(0), outs, sign(t, priv, msg))
	require.NoError(t, err)

	event := <-sub.GetEvent()
	assert.Equal(t, EventExecuted, event.Type)
	assert.Equal(t, uint64(1), event.Nonce)
	assert.Equal(t, crypto.Keccak256Hash(msg), event.Digest)
	assert.Equal(t, []byte{0x1}, event.Results)
}

func TestStorePersistsAndResumes(t *testing.T) {
	priv, key, err := schnorr.GenerateKey()
	require.NoError(t, err)

	h := hostmem.NewHost(hclog.NewNullLogger(), routerAddr)
	h.SetBalance(routerAddr, big.NewInt(100))

	st, err := store.NewStore(hclog.NewNullLogger(), kvdb.NewMemoryKV())
	require.NoError(t, err)

	r, err := NewRouter(hclog.NewNullLogger(), h, key, WithStore(st))
	require.NoError(t, err)

	_, newKey, err := schnorr.GenerateKey()
	require.NoError(t, err)

	msg, err := UpdateKeyMessage(r.NextNonce(), newKey)
	require.NoError(t, err)
	require.NoError(t, r.UpdateKey(newKey, sign(t, priv, msg)))

	action, err := st.ReadAction(1)
	require.NoError(t, err)
	assert.Equal(t, "updateKey", action.Tag)
	assert.Equal(t, crypto.Keccak256Hash(msg), action.Digest)

	resumed, err := ResumeRouter(hclog.NewNullLogger(), h, st)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resumed.NextNonce())
	assert.True(t, resumed.Key().Equal(newKey))
	assert.Equal(t, types.ZeroAddress, resumed.EscapedTo())
}

func TestValidateOutInstructions(t *testing.T) {
	valid := addressOut(aliceAddr, 1)
	assert.NoError(t, valid.Validate())

	invalid := []OutInstruction{
		// no amount
		{Kind: AddressDestination, To: aliceAddr},
		// no code payload
		{Kind: CodeDestination, Amount: big.NewInt(1)},
		// unknown kind
		{Kind: DestinationKind(9), Amount: big.NewInt(1)},
		// negative amount
		{Kind: AddressDestination, Amount: big.NewInt(-1), To: bobAddr},
	}

	for i := range invalid {
		assert.Error(t, invalid[i].Validate(), "instruction %d", i)
	}

	assert.Error(t, ValidateOutInstructions(invalid))
	assert.NoError(t, ValidateOutInstructions([]OutInstruction{valid}))
}
