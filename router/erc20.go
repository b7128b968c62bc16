package router

import (
	"math/big"

	"github.com/custodia-chain/router/types"
	"github.com/umbracle/go-web3"
	"github.com/umbracle/go-web3/abi"
)

// Standard token call surface. The engine assumes conforming assets;
// non-conforming behavior surfaces as instruction-level failure.
var (
	methTransfer = mustMethod(
		"function transfer(address to, uint256 amount) returns (bool)",
	)
	methTransferFrom = mustMethod(
		"function transferFrom(address from, address to, uint256 amount) returns (bool)",
	)
	methBalanceOf = mustMethod(
		"function balanceOf(address holder) returns (uint256)",
	)
)

func mustMethod(signature string) *abi.Method {
	m, err := abi.NewMethod(signature)
	if err != nil {
		panic(err)
	}

	return m
}

func encodeMethodCall(m *abi.Method, args map[string]interface{}) ([]byte, error) {
	encoded, err := abi.Encode(args, m.Inputs)
	if err != nil {
		return nil, err
	}

	return append(m.ID(), encoded...), nil
}

func encodeTransfer(to types.Address, amount *big.Int) ([]byte, error) {
	return encodeMethodCall(methTransfer, map[string]interface{}{
		"to":     web3.Address(to),
		"amount": amount,
	})
}

func encodeTransferFrom(from, to types.Address, amount *big.Int) ([]byte, error) {
	return encodeMethodCall(methTransferFrom, map[string]interface{}{
		"from":   web3.Address(from),
		"to":     web3.Address(to),
		"amount": amount,
	})
}

func encodeBalanceOf(holder types.Address) ([]byte, error) {
	return encodeMethodCall(methBalanceOf, map[string]interface{}{
		"holder": web3.Address(holder),
	})
}
