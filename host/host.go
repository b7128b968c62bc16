package host

import (
	"errors"
	"math/big"

	"github.com/custodia-chain/router/types"
)

var (
	// ErrOutOfGas is returned when a call or creation exceeds its
	// resource budget
	ErrOutOfGas = errors.New("out of gas")

	// ErrInsufficientBalance is returned when a value transfer exceeds
	// the sender's balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrExecutionReverted is returned when the callee aborts
	ErrExecutionReverted = errors.New("execution reverted")
)

// Host is the execution context the engine runs inside. Every outbound
// interaction is resource-bounded by an explicit gas budget; exceeding
// the budget surfaces as an ordinary call error. Calls and creations
// run synchronously to completion and may reenter the engine before
// returning.
type Host interface {
	// Self returns the engine's own address
	Self() types.Address

	// Balance returns the native balance of an address
	Balance(addr types.Address) *big.Int

	// Nonce returns the account nonce of an address. The engine's own
	// nonce doubles as its deployment counter.
	Nonce(addr types.Address) uint64

	// Call transfers value and invokes any code at the destination,
	// spending at most gas. The callee's effects are reverted on error.
	Call(to types.Address, input []byte, value *big.Int, gas uint64) ([]byte, error)

	// Create performs a creation-style deployment of code from the
	// engine's own address, forwarding value, spending at most gas.
	// The engine's nonce increments once per attempt that reaches the
	// creation step; a failed attempt is reverted wholesale.
	Create(code []byte, value *big.Int, gas uint64) (types.Address, error)
}
