package router

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/custodia-chain/router/schnorr"
	"github.com/custodia-chain/router/types"
	"github.com/hashicorp/go-multierror"
	"github.com/umbracle/go-web3"
	"github.com/umbracle/go-web3/abi"
)

// Action tags. Every authorized message commits to its tag and the
// nonce it will consume, making each signature single-use and ordered.
const (
	actionUpdateKey   = "updateKey"
	actionExecute     = "execute"
	actionEscapeHatch = "escapeHatch"
)

var (
	updateKeyMessageType = abi.MustNewType(
		"tuple(string action, uint256 nonce, bytes32 key)",
	)

	executeMessageType = abi.MustNewType(
		"tuple(string action, uint256 nonce, address coin, uint256 fee," +
			" tuple(uint8 kind, bytes destination, uint256 amount)[] outs)",
	)

	escapeHatchMessageType = abi.MustNewType(
		"tuple(string action, uint256 nonce, address target)",
	)

	codeDestinationType = abi.MustNewType("tuple(uint32 gasLimit, bytes code)")
)

// DestinationKind discriminates where a batch instruction delivers
type DestinationKind uint8

const (
	// AddressDestination delivers value to an existing address
	AddressDestination DestinationKind = iota + 1

	// CodeDestination deploys a sandboxed code blob, funding its
	// predicted address up front for non-native assets
	CodeDestination
)

// CodeParams is the payload of a CodeDestination instruction
type CodeParams struct {
	// GasLimit bounds the total resource consumption of the deployment
	// and whatever its constructor does
	GasLimit uint64

	Code []byte
}

// OutInstruction is one outbound transfer or deployment of a batch.
// The amount is denominated in the batch's declared asset.
type OutInstruction struct {
	Kind   DestinationKind
	To     types.Address
	Code   *CodeParams
	Amount *big.Int
}

// Validate checks structural well-formedness, aggregating every fault
func (o *OutInstruction) Validate() error {
	var result error

	switch o.Kind {
	case AddressDestination:
		if o.Code != nil {
			result = multierror.Append(result, errors.New("code payload on address destination"))
		}
	case CodeDestination:
		if o.Code == nil {
			result = multierror.Append(result, errors.New("missing code payload"))
		} else if len(o.Code.Code) == 0 {
			result = multierror.Append(result, errors.New("empty code blob"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown destination kind %d", o.Kind))
	}

	if o.Amount == nil || o.Amount.Sign() < 0 {
		result = multierror.Append(result, errors.New("missing or negative amount"))
	}

	return result
}

// ValidateOutInstructions validates a whole batch
func ValidateOutInstructions(outs []OutInstruction) error {
	var result error

	for i := range outs {
		if err := outs[i].Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("instruction %d: %w", i, err))
		}
	}

	return result
}

// destination returns the instruction's wire-form destination payload
func (o *OutInstruction) destination() ([]byte, error) {
	switch o.Kind {
	case AddressDestination:
		return o.To.Bytes(), nil
	case CodeDestination:
		return abi.Encode(map[string]interface{}{
			"gasLimit": o.Code.GasLimit,
			"code":     o.Code.Code,
		}, codeDestinationType)
	default:
		return nil, fmt.Errorf("unknown destination kind %d", o.Kind)
	}
}

// UpdateKeyMessage builds the exact bytes a key update must be signed
// over at the given nonce
func UpdateKeyMessage(nonce uint64, key *schnorr.PublicKey) ([]byte, error) {
	return abi.Encode(map[string]interface{}{
		"action": actionUpdateKey,
		"nonce":  new(big.Int).SetUint64(nonce),
		"key":    [32]byte(key.Bytes()),
	}, updateKeyMessageType)
}

// ExecuteMessage builds the exact bytes a batch must be signed over at
// the given nonce
func ExecuteMessage(
	nonce uint64,
	coin types.Address,
	fee *big.Int,
	outs []OutInstruction,
) ([]byte, error) {
	encodedOuts := make([]map[string]interface{}, len(outs))

	for i := range outs {
		dest, err := outs[i].destination()
		if err != nil {
			return nil, err
		}

		encodedOuts[i] = map[string]interface{}{
			"kind":        uint8(outs[i].Kind),
			"destination": dest,
			"amount":      outs[i].Amount,
		}
	}

	return abi.Encode(map[string]interface{}{
		"action": actionExecute,
		"nonce":  new(big.Int).SetUint64(nonce),
		"coin":   web3.Address(coin),
		"fee":    fee,
		"outs":   encodedOuts,
	}, executeMessageType)
}

// EscapeHatchMessage builds the exact bytes an escape trigger must be
// signed over at the given nonce
func EscapeHatchMessage(nonce uint64, target types.Address) ([]byte, error) {
	return abi.Encode(map[string]interface{}{
		"action": actionEscapeHatch,
		"nonce":  new(big.Int).SetUint64(nonce),
		"target": web3.Address(target),
	}, escapeHatchMessageType)
}
