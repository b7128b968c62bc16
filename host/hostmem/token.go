package hostmem

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/custodia-chain/router/host"
	"github.com/custodia-chain/router/types"
	"github.com/umbracle/go-web3"
	"github.com/umbracle/go-web3/abi"
)

// gas cost of a token balance mutation, comfortably inside the
// standard transfer budget
const tokenOpGas = 40000

var (
	methTransfer     = mustMethod("function transfer(address to, uint256 amount) returns (bool)")
	methTransferFrom = mustMethod(
		"function transferFrom(address from, address to, uint256 amount) returns (bool)",
	)
	methBalanceOf = mustMethod("function balanceOf(address holder) returns (uint256)")
)

func mustMethod(signature string) *abi.Method {
	m, err := abi.NewMethod(signature)
	if err != nil {
		panic(err)
	}

	return m
}

// TokenMode selects how a token behaves on transfer, the standard
// shape or one of the non-conforming shapes seen in deployed tokens
type TokenMode int

const (
	// TokenStandard transfers and returns a 32-byte true
	TokenStandard TokenMode = iota

	// TokenNoReturn transfers and returns no data
	TokenNoReturn

	// TokenReturnsFalse performs no transfer and returns a 32-byte false
	TokenReturnsFalse

	// TokenGarbageReturn transfers but returns data of a non-standard shape
	TokenGarbageReturn

	// TokenReverts aborts every transfer
	TokenReverts

	// TokenGasGuzzler demands more gas than any sane budget grants
	TokenGasGuzzler
)

// Token is an ERC20-style asset contract holding its balances in host
// storage so they journal and revert with everything else
type Token struct {
	host *Host
	addr types.Address
	mode TokenMode
}

// NewToken installs a token contract at addr
func NewToken(h *Host, addr types.Address, mode TokenMode) *Token {
	t := &Token{host: h, addr: addr, mode: mode}
	h.SetCode(addr, t.run)

	return t
}

func (t *Token) Address() types.Address {
	return t.addr
}

// Mint credits a holder outside of any call context
func (t *Token) Mint(holder types.Address, amount *big.Int) {
	t.setBalance(holder, new(big.Int).Add(t.BalanceOf(holder), amount))
}

func (t *Token) BalanceOf(holder types.Address) *big.Int {
	raw := t.host.GetStorage(t.addr, balanceKey(holder))

	return new(big.Int).SetBytes(raw.Bytes())
}

func (t *Token) setBalance(holder types.Address, amount *big.Int) {
	t.host.SetStorage(t.addr, balanceKey(holder), types.BytesToHash(amount.Bytes()))
}

func balanceKey(holder types.Address) types.Hash {
	return types.BytesToHash(holder.Bytes())
}

func (t *Token) run(ctx *CallContext) ([]byte, error) {
	if len(ctx.Input) < 4 {
		return nil, host.ErrExecutionReverted
	}

	gas := uint64(tokenOpGas)
	if t.mode == TokenGasGuzzler {
		gas = 10000000
	}

	if !ctx.UseGas(gas) {
		return nil, host.ErrOutOfGas
	}

	selector := ctx.Input[:4]

	switch {
	case bytes.Equal(selector, methTransfer.ID()):
		return t.transfer(ctx)
	case bytes.Equal(selector, methTransferFrom.ID()):
		return t.transferFrom(ctx)
	case bytes.Equal(selector, methBalanceOf.ID()):
		return t.balanceOf(ctx)
	default:
		return nil, host.ErrExecutionReverted
	}
}

func (t *Token) transfer(ctx *CallContext) ([]byte, error) {
	args, err := decodeArgs(methTransfer, ctx.Input[4:])
	if err != nil {
		return nil, err
	}

	to := args["to"].(web3.Address)     //nolint:forcetypeassert
	amount := args["amount"].(*big.Int) //nolint:forcetypeassert

	return t.move(ctx.Caller, types.Address(to), amount)
}

func (t *Token) transferFrom(ctx *CallContext) ([]byte, error) {
	args, err := decodeArgs(methTransferFrom, ctx.Input[4:])
	if err != nil {
		return nil, err
	}

	from := args["from"].(web3.Address) //nolint:forcetypeassert
	to := args["to"].(web3.Address)     //nolint:forcetypeassert
	amount := args["amount"].(*big.Int) //nolint:forcetypeassert

	// allowance bookkeeping is omitted, the engine is only ever an
	// operator for callers pushing funds into it
	return t.move(types.Address(from), types.Address(to), amount)
}

func (t *Token) balanceOf(ctx *CallContext) ([]byte, error) {
	args, err := decodeArgs(methBalanceOf, ctx.Input[4:])
	if err != nil {
		return nil, err
	}

	holder := args["holder"].(web3.Address) //nolint:forcetypeassert

	return encodeWord(t.BalanceOf(types.Address(holder))), nil
}

func (t *Token) move(from, to types.Address, amount *big.Int) ([]byte, error) {
	switch t.mode {
	case TokenReverts:
		return nil, host.ErrExecutionReverted
	case TokenReturnsFalse:
		return encodeBool(false), nil
	default:
	}

	balance := t.BalanceOf(from)
	if balance.Cmp(amount) < 0 {
		return nil, host.ErrExecutionReverted
	}

	t.setBalance(from, new(big.Int).Sub(balance, amount))
	t.setBalance(to, new(big.Int).Add(t.BalanceOf(to), amount))

	switch t.mode {
	case TokenNoReturn:
		return nil, nil
	case TokenGarbageReturn:
		return []byte("not a word"), nil
	default:
		return encodeBool(true), nil
	}
}

func decodeArgs(m *abi.Method, data []byte) (map[string]interface{}, error) {
	decoded, err := abi.Decode(m.Inputs, data)
	if err != nil {
		return nil, err
	}

	args, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected argument decoding %T", decoded)
	}

	return args, nil
}

func encodeBool(v bool) []byte {
	word := make([]byte, 32)
	if v {
		word[31] = 1
	}

	return word
}

func encodeWord(v *big.Int) []byte {
	word := make([]byte, 32)
	v.FillBytes(word)

	return word
}
