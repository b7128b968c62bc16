package hostmem

import (
	"math/big"

	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/host"
	"github.com/custodia-chain/router/types"
	"github.com/hashicorp/go-hclog"
	iradix "github.com/hashicorp/go-immutable-radix"
)

const (
	// creation base cost plus a per-byte deposit cost, charged against
	// the creation's gas budget
	createBaseGas    = 32000
	createPerByteGas = 200
)

// Contract is callback code installed at an address. It runs
// synchronously inside the calling host and may reenter whatever it
// captures, including the engine itself.
type Contract func(ctx *CallContext) ([]byte, error)

// account is a single account entry. Accounts are copied before
// mutation so reverted snapshots never observe partial writes.
type account struct {
	Balance *big.Int
	Nonce   uint64

	// Code runs on every call to the account, CodeBlob holds raw
	// deployed bytes with no runnable semantics
	Code     Contract
	CodeBlob []byte

	Storage map[types.Hash]types.Hash
}

func newAccount() *account {
	return &account{
		Balance: new(big.Int),
		Storage: map[types.Hash]types.Hash{},
	}
}

func (a *account) Copy() *account {
	aa := &account{
		Balance:  new(big.Int).Set(a.Balance),
		Nonce:    a.Nonce,
		Code:     a.Code,
		CodeBlob: types.CopyBytes(a.CodeBlob),
		Storage:  make(map[types.Hash]types.Hash, len(a.Storage)),
	}

	for k, v := range a.Storage {
		aa.Storage[k] = v
	}

	return aa
}

// Host is an in-memory, journaled execution host. Account state lives
// in an immutable radix tree so snapshots are O(1) and reverting a
// failed sub-call restores every effect it had, the engine's
// deployment counter included.
type Host struct {
	logger hclog.Logger

	self types.Address

	txn       *iradix.Txn
	snapshots []*iradix.Tree
}

func NewHost(logger hclog.Logger, self types.Address) *Host {
	h := &Host{
		logger:    logger.Named("hostmem"),
		self:      self,
		txn:       iradix.New().Txn(),
		snapshots: []*iradix.Tree{},
	}

	// the engine's creation is itself a deployment step
	h.upsert(self, func(a *account) {
		a.Nonce = 1
	})

	return h
}

func (h *Host) Self() types.Address {
	return h.self
}

// Snapshot takes a snapshot at this point in time
func (h *Host) Snapshot() int {
	t := h.txn.CommitOnly()

	id := len(h.snapshots)
	h.snapshots = append(h.snapshots, t)

	return id
}

// RevertToSnapshot reverts to a given snapshot
func (h *Host) RevertToSnapshot(id int) {
	if id >= len(h.snapshots) {
		panic("revert to unknown snapshot")
	}

	h.txn = h.snapshots[id].Txn()
}

func (h *Host) getAccount(addr types.Address) (*account, bool) {
	val, exists := h.txn.Get(addr.Bytes())
	if !exists {
		return nil, false
	}

	return val.(*account), true //nolint:forcetypeassert
}

func (h *Host) upsert(addr types.Address, mutate func(*account)) {
	acct, exists := h.getAccount(addr)
	if !exists {
		acct = newAccount()
	} else {
		acct = acct.Copy()
	}

	mutate(acct)
	h.txn.Insert(addr.Bytes(), acct)
}

func (h *Host) Balance(addr types.Address) *big.Int {
	acct, exists := h.getAccount(addr)
	if !exists {
		return new(big.Int)
	}

	return new(big.Int).Set(acct.Balance)
}

func (h *Host) Nonce(addr types.Address) uint64 {
	acct, exists := h.getAccount(addr)
	if !exists {
		return 0
	}

	return acct.Nonce
}

// SetBalance overwrites an account balance. Test funding hook.
func (h *Host) SetBalance(addr types.Address, balance *big.Int) {
	h.upsert(addr, func(a *account) {
		a.Balance = new(big.Int).Set(balance)
	})
}

// SetCode installs callback code at an address
func (h *Host) SetCode(addr types.Address, code Contract) {
	h.upsert(addr, func(a *account) {
		a.Code = code
	})
}

// CodeBlobAt returns raw deployed bytes, nil if none
func (h *Host) CodeBlobAt(addr types.Address) []byte {
	acct, exists := h.getAccount(addr)
	if !exists {
		return nil
	}

	return types.CopyBytes(acct.CodeBlob)
}

func (h *Host) GetStorage(addr types.Address, key types.Hash) types.Hash {
	acct, exists := h.getAccount(addr)
	if !exists {
		return types.ZeroHash
	}

	return acct.Storage[key]
}

func (h *Host) SetStorage(addr types.Address, key, value types.Hash) {
	h.upsert(addr, func(a *account) {
		a.Storage[key] = value
	})
}

func (h *Host) transfer(from, to types.Address, value *big.Int) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}

	acct, exists := h.getAccount(from)
	if !exists || acct.Balance.Cmp(value) < 0 {
		return host.ErrInsufficientBalance
	}

	h.upsert(from, func(a *account) {
		a.Balance = new(big.Int).Sub(a.Balance, value)
	})
	h.upsert(to, func(a *account) {
		a.Balance = new(big.Int).Add(a.Balance, value)
	})

	return nil
}

// Call performs an engine-originated call
func (h *Host) Call(to types.Address, input []byte, value *big.Int, gas uint64) ([]byte, error) {
	return h.CallFrom(h.self, to, input, value, gas)
}

// CallFrom performs a call from an arbitrary caller. Tests use it to
// model external users interacting with installed contracts.
func (h *Host) CallFrom(
	from, to types.Address,
	input []byte,
	value *big.Int,
	gas uint64,
) ([]byte, error) {
	snapshot := h.Snapshot()

	if err := h.transfer(from, to, value); err != nil {
		h.RevertToSnapshot(snapshot)

		return nil, err
	}

	acct, exists := h.getAccount(to)
	if !exists || acct.Code == nil {
		// plain receive
		return nil, nil
	}

	ctx := &CallContext{
		host:   h,
		Caller: from,
		Self:   to,
		Value:  valueOrZero(value),
		Input:  input,
		gas:    gas,
	}

	ret, err := acct.Code(ctx)
	if err != nil {
		h.RevertToSnapshot(snapshot)

		return nil, err
	}

	return ret, nil
}

// Create deploys a raw code blob from the engine's own address,
// forwarding value. The engine nonce increments with the attempt and is
// rolled back alongside everything else if the attempt fails.
func (h *Host) Create(code []byte, value *big.Int, gas uint64) (types.Address, error) {
	snapshot := h.Snapshot()

	addr := crypto.CreateAddress(h.self, h.Nonce(h.self))

	h.upsert(h.self, func(a *account) {
		a.Nonce++
	})

	if gas < createBaseGas+createPerByteGas*uint64(len(code)) {
		h.RevertToSnapshot(snapshot)

		return types.ZeroAddress, host.ErrOutOfGas
	}

	if err := h.transfer(h.self, addr, value); err != nil {
		h.RevertToSnapshot(snapshot)

		return types.ZeroAddress, err
	}

	h.upsert(addr, func(a *account) {
		a.CodeBlob = types.CopyBytes(code)
		a.Nonce = 1
	})

	return addr, nil
}

func valueOrZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(value)
}

// CallContext is the environment handed to contract callbacks
type CallContext struct {
	host *Host

	Caller types.Address
	Self   types.Address
	Value  *big.Int
	Input  []byte

	gas uint64
}

// UseGas draws down the call's budget, reporting whether it sufficed
func (c *CallContext) UseGas(gas uint64) bool {
	if c.gas < gas {
		c.gas = 0

		return false
	}

	c.gas -= gas

	return true
}

// Gas returns the remaining budget
func (c *CallContext) Gas() uint64 {
	return c.gas
}

// GetStorage reads the callee's own storage
func (c *CallContext) GetStorage(key types.Hash) types.Hash {
	return c.host.GetStorage(c.Self, key)
}

// SetStorage writes the callee's own storage
func (c *CallContext) SetStorage(key, value types.Hash) {
	c.host.SetStorage(c.Self, key, value)
}

// Call lets a contract make a nested call under the caller's remaining
// budget
func (c *CallContext) Call(to types.Address, input []byte, value *big.Int) ([]byte, error) {
	return c.host.CallFrom(c.Self, to, input, value, c.gas)
}
