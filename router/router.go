package router

import (
	"bytes"
	"math/big"

	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/host"
	"github.com/custodia-chain/router/schnorr"
	"github.com/custodia-chain/router/store"
	"github.com/custodia-chain/router/types"
	"github.com/hashicorp/go-hclog"
)

const (
	// nativeTransferGas is the budget of a plain native send. Enough
	// for a bare receipt, deliberately too small to fund recipient
	// logic that could stall a batch.
	nativeTransferGas = 5000

	// tokenTransferGas is the budget of a standard token transfer
	tokenTransferGas = 100000
)

// Router custodies funds for a rotating threshold key and applies its
// authorized actions: key rotation, outbound batches, and the one-way
// escape hatch.
//
// The host's execution model is logically single-threaded and
// reentrant: outbound calls made while processing a batch may call
// back into the engine before returning. Only batch execution is
// mutually exclusive with itself, via an explicit in-progress flag.
type Router struct {
	logger  hclog.Logger
	host    host.Host
	store   *store.Store
	metrics *Metrics
	stream  *eventStream

	key       *schnorr.PublicKey
	nextNonce uint64
	escapedTo types.Address

	// executing guards batch execution against nested invocation
	executing bool
}

// Option configures optional router collaborators
type Option func(*Router)

// WithStore persists state and consumed actions through st
func WithStore(st *store.Store) Option {
	return func(r *Router) {
		r.store = st
	}
}

// WithMetrics wires prometheus metrics
func WithMetrics(m *Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// NewRouter initializes the engine with its initial authoritative key.
// Setting the initial key consumes nonce 0.
func NewRouter(
	logger hclog.Logger,
	h host.Host,
	initialKey *schnorr.PublicKey,
	opts ...Option,
) (*Router, error) {
	r := &Router{
		logger:  logger.Named("router"),
		host:    h,
		metrics: NilMetrics(),
		stream:  newEventStream(),

		key:       initialKey,
		nextNonce: 1,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.store != nil {
		if err := r.store.WriteState(r.stateRecord()); err != nil {
			return nil, err
		}
	}

	r.metrics.SetNextNonce(float64(r.nextNonce))
	r.stream.push(&Event{
		Type:  EventKeyUpdated,
		Nonce: 0,
		Key:   initialKey.Bytes(),
	})

	r.logger.Info("initialized", "key", initialKey.Bytes(), "self", h.Self())

	return r, nil
}

// ResumeRouter restores the engine from a store's persisted state
func ResumeRouter(
	logger hclog.Logger,
	h host.Host,
	st *store.Store,
	opts ...Option,
) (*Router, error) {
	state, err := st.ReadState()
	if err != nil {
		return nil, err
	}

	key, err := schnorr.PublicKeyFromBytes(state.Key.Bytes())
	if err != nil {
		return nil, err
	}

	r := &Router{
		logger:  logger.Named("router"),
		host:    h,
		store:   st,
		metrics: NilMetrics(),
		stream:  newEventStream(),

		key:       key,
		nextNonce: state.NextNonce,
		escapedTo: state.EscapedTo,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.metrics.SetNextNonce(float64(r.nextNonce))
	r.logger.Info("resumed", "nextNonce", r.nextNonce, "escapedTo", r.escapedTo)

	return r, nil
}

// Key returns the current authoritative key
func (r *Router) Key() *schnorr.PublicKey {
	return r.key
}

// NextNonce returns the nonce the next authorized action must be
// signed for
func (r *Router) NextNonce() uint64 {
	return r.nextNonce
}

// EscapedTo returns the escape target, zero if the hatch was never
// invoked
func (r *Router) EscapedTo() types.Address {
	return r.escapedTo
}

// PredictDeploymentAddress returns the address the next sandboxed
// deployment will occupy, computable before any code exists there
func (r *Router) PredictDeploymentAddress() types.Address {
	return crypto.CreateAddress(r.host.Self(), r.host.Nonce(r.host.Self()))
}

// Subscribe opens an engine event subscription
func (r *Router) Subscribe() Subscription {
	return r.stream.subscribe()
}

// verify checks an action signature against the current key over msg.
// The escape check comes first: once escaped, nothing verifies again.
func (r *Router) verify(msg []byte, sig *schnorr.Signature) error {
	if !r.escapedTo.IsZero() {
		return ErrEscaped
	}

	if sig == nil || !sig.Verify(r.key, msg) {
		r.metrics.ActionRejectedInc()

		return ErrInvalidSignature
	}

	return nil
}

// consume advances the nonce and persists the consumed action. Called
// only after verification, atomically with the action's state effects.
func (r *Router) consume(tag string, digest types.Hash) uint64 {
	nonce := r.nextNonce
	r.nextNonce++

	r.metrics.ActionVerifiedInc()
	r.metrics.SetNextNonce(float64(r.nextNonce))

	if r.store != nil {
		err := r.store.WriteAction(r.stateRecord(), &store.ActionRecord{
			Nonce:  nonce,
			Tag:    tag,
			Digest: digest,
		})
		if err != nil {
			// persistence is advisory, the engine state remains the
			// source of truth
			r.logger.Error("failed to persist action", "nonce", nonce, "err", err)
		}
	}

	return nonce
}

func (r *Router) stateRecord() *store.StateRecord {
	return &store.StateRecord{
		Key:       r.key.Bytes(),
		NextNonce: r.nextNonce,
		EscapedTo: r.escapedTo,
	}
}

// UpdateKey replaces the authoritative key. The signature must verify
// against the current key over the update message at the current
// nonce. The new key's well-formedness beyond the point requirements
// is the signer's responsibility.
func (r *Router) UpdateKey(newKey *schnorr.PublicKey, sig *schnorr.Signature) error {
	msg, err := UpdateKeyMessage(r.nextNonce, newKey)
	if err != nil {
		return err
	}

	if err := r.verify(msg, sig); err != nil {
		return err
	}

	r.key = newKey
	nonce := r.consume(actionUpdateKey, crypto.Keccak256Hash(msg))

	r.stream.push(&Event{
		Type:  EventKeyUpdated,
		Nonce: nonce,
		Key:   newKey.Bytes(),
	})

	r.logger.Info("key updated", "nonce", nonce, "key", newKey.Bytes())

	return nil
}

// Execute applies a signed batch of outbound instructions for a single
// asset. Individual instruction failures are recorded in the returned
// bitmask and never abort the batch; the fee is paid to caller
// regardless. Exactly one nonce is consumed.
func (r *Router) Execute(
	caller types.Address,
	coin types.Address,
	fee *big.Int,
	outs []OutInstruction,
	sig *schnorr.Signature,
) ([]byte, error) {
	// a nested execute would interleave two batches' ordered effects
	if r.executing {
		return nil, ErrReentrantCall
	}

	if err := ValidateOutInstructions(outs); err != nil {
		return nil, err
	}

	msg, err := ExecuteMessage(r.nextNonce, coin, fee, outs)
	if err != nil {
		return nil, err
	}

	if err := r.verify(msg, sig); err != nil {
		return nil, err
	}

	r.executing = true
	defer func() { r.executing = false }()

	digest := crypto.Keccak256Hash(msg)
	nonce := r.consume(actionExecute, digest)

	results := make([]byte, (len(outs)+7)/8)
	succeeded := 0

	for i := range outs {
		if r.executeOut(coin, &outs[i]) {
			results[i/8] |= 1 << (i % 8)
			succeeded++
		}
	}

	r.metrics.BatchExecutedInc()
	r.metrics.InstructionsObserve(succeeded, len(outs)-succeeded)

	r.stream.push(&Event{
		Type:    EventExecuted,
		Nonce:   nonce,
		Coin:    coin,
		Digest:  digest,
		Results: types.CopyBytes(results),
	})

	r.logger.Info("batch executed",
		"nonce", nonce,
		"coin", coin,
		"instructions", len(outs),
		"succeeded", succeeded,
	)

	// the fee settlement is not itself tracked or retried
	if fee != nil && fee.Sign() > 0 {
		if !r.transferOut(caller, coin, fee) {
			r.logger.Warn("fee settlement failed", "nonce", nonce, "relayer", caller)
		}
	}

	return results, nil
}

// executeOut dispatches one instruction, reporting success. Failures
// of any shape are the instruction's alone.
func (r *Router) executeOut(coin types.Address, out *OutInstruction) bool {
	switch out.Kind {
	case AddressDestination:
		return r.transferOut(out.To, coin, out.Amount)

	case CodeDestination:
		value := out.Amount

		if !coin.IsZero() {
			// fund the deployment's predicted address so the sandboxed
			// code observes its balance without a post-deploy call
			if !r.tokenTransfer(coin, r.PredictDeploymentAddress(), out.Amount) {
				return false
			}

			value = nil
		}

		_, err := r.host.Create(out.Code.Code, value, out.Code.GasLimit)

		return err == nil

	default:
		return false
	}
}

// transferOut performs a bounded-resource outbound transfer of either
// the native asset or a token
func (r *Router) transferOut(to types.Address, coin types.Address, amount *big.Int) bool {
	if coin.IsZero() {
		_, err := r.host.Call(to, nil, amount, nativeTransferGas)

		return err == nil
	}

	return r.tokenTransfer(coin, to, amount)
}

// tokenTransfer calls transfer on the token with the standard budget,
// tolerating conforming tokens that return no data
func (r *Router) tokenTransfer(token, to types.Address, amount *big.Int) bool {
	input, err := encodeTransfer(to, amount)
	if err != nil {
		return false
	}

	ret, err := r.host.Call(token, input, nil, tokenTransferGas)

	return err == nil && transferReturnOK(ret)
}

// transferReturnOK accepts empty return data or an exact 32-byte true.
// Any other shape is a failure, never a guess.
func transferReturnOK(ret []byte) bool {
	if len(ret) == 0 {
		return true
	}

	if len(ret) != 32 {
		return false
	}

	word := make([]byte, 32)
	word[31] = 1

	return bytes.Equal(ret, word)
}

// InInstruction accepts an incoming transfer together with opaque
// instruction bytes interpreted off-chain. The native amount must
// exactly equal the attached value; a token amount is pulled from the
// caller. Deliberately not disabled by the escape hatch: latent
// deposits are swept, not refused.
func (r *Router) InInstruction(
	caller types.Address,
	value *big.Int,
	coin types.Address,
	amount *big.Int,
	instruction []byte,
) error {
	if coin.IsZero() {
		if value == nil || amount == nil || value.Cmp(amount) != 0 {
			return ErrAmountMismatch
		}
	} else {
		input, err := encodeTransferFrom(caller, r.host.Self(), amount)
		if err != nil {
			return err
		}

		ret, err := r.host.Call(coin, input, nil, tokenTransferGas)
		if err != nil || !transferReturnOK(ret) {
			return ErrTokenPull
		}
	}

	r.metrics.InInstructionInc()
	r.stream.push(&Event{
		Type:        EventInInstruction,
		From:        caller,
		Coin:        coin,
		Amount:      new(big.Int).Set(amount),
		Instruction: types.CopyBytes(instruction),
	})

	r.logger.Debug("in instruction", "from", caller, "coin", coin, "amount", amount)

	return nil
}

// EscapeHatch permanently redirects the engine to target. Once set, no
// further authorized action verifies, ever; sweeping via Escape is the
// only remaining operation.
func (r *Router) EscapeHatch(target types.Address, sig *schnorr.Signature) error {
	if target.IsZero() {
		return ErrInvalidEscapeTarget
	}

	msg, err := EscapeHatchMessage(r.nextNonce, target)
	if err != nil {
		return err
	}

	if err := r.verify(msg, sig); err != nil {
		return err
	}

	r.escapedTo = target
	r.consume(actionEscapeHatch, crypto.Keccak256Hash(msg))

	r.stream.push(&Event{
		Type:   EventEscapeHatch,
		Target: target,
	})

	r.logger.Info("escape hatch invoked", "target", target)

	return nil
}

// Escape sweeps the engine's entire balance of coin to the escape
// target. Permissionless so latent deposits are never stranded.
func (r *Router) Escape(coin types.Address) error {
	if r.escapedTo.IsZero() {
		return ErrNotEscaped
	}

	var amount *big.Int

	if coin.IsZero() {
		amount = r.host.Balance(r.host.Self())
	} else {
		balance, err := r.tokenBalance(coin)
		if err != nil {
			return err
		}

		amount = balance
	}

	if !r.transferOut(r.escapedTo, coin, amount) {
		return ErrEscapeFailed
	}

	r.metrics.EscapeInc()
	r.stream.push(&Event{
		Type:   EventEscaped,
		Coin:   coin,
		Amount: amount,
	})

	r.logger.Info("escaped", "coin", coin, "amount", amount)

	return nil
}

// tokenBalance queries the engine's balance of a token
func (r *Router) tokenBalance(token types.Address) (*big.Int, error) {
	input, err := encodeBalanceOf(r.host.Self())
	if err != nil {
		return nil, err
	}

	ret, err := r.host.Call(token, input, nil, tokenTransferGas)
	if err != nil {
		return nil, err
	}

	return new(big.Int).SetBytes(ret), nil
}
