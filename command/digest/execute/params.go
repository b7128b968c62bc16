package execute

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/custodia-chain/router/command/helper"
	"github.com/custodia-chain/router/router"
	"github.com/custodia-chain/router/types"
)

const (
	nonceFlag = "nonce"
	coinFlag  = "coin"
	feeFlag   = "fee"
	outsFlag  = "outs"
)

var (
	params = &executeParams{}
)

type executeParams struct {
	nonce    uint64
	coinRaw  string
	feeRaw   string
	outsPath string

	coin types.Address
	fee  *big.Int
	outs []router.OutInstruction
}

// outJSON is one instruction as listed in the outs file. Either "to"
// or "code" with "gasLimit" must be set.
type outJSON struct {
	To       string `json:"to"`
	Code     string `json:"code"`
	GasLimit uint64 `json:"gasLimit"`
	Amount   string `json:"amount"`
}

func (p *executeParams) validateFlags() error {
	coinBytes, err := helper.DecodeHex(p.coinRaw, types.AddressLength)
	if err != nil {
		return err
	}

	p.coin = types.BytesToAddress(coinBytes)

	fee, ok := new(big.Int).SetString(p.feeRaw, 0)
	if !ok || fee.Sign() < 0 {
		return fmt.Errorf("invalid fee %q", p.feeRaw)
	}

	p.fee = fee

	data, err := os.ReadFile(p.outsPath)
	if err != nil {
		return err
	}

	var raw []outJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.outs = make([]router.OutInstruction, len(raw))

	for i := range raw {
		out, err := raw[i].toInstruction()
		if err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}

		p.outs[i] = out
	}

	return router.ValidateOutInstructions(p.outs)
}

func (o *outJSON) toInstruction() (router.OutInstruction, error) {
	amount, ok := new(big.Int).SetString(o.Amount, 0)
	if !ok {
		return router.OutInstruction{}, fmt.Errorf("invalid amount %q", o.Amount)
	}

	if o.Code != "" {
		code, err := helper.DecodeHex(o.Code, -1)
		if err != nil {
			return router.OutInstruction{}, err
		}

		return router.OutInstruction{
			Kind:   router.CodeDestination,
			Code:   &router.CodeParams{GasLimit: o.GasLimit, Code: code},
			Amount: amount,
		}, nil
	}

	to, err := helper.DecodeHex(o.To, types.AddressLength)
	if err != nil {
		return router.OutInstruction{}, err
	}

	return router.OutInstruction{
		Kind:   router.AddressDestination,
		To:     types.BytesToAddress(to),
		Amount: amount,
	}, nil
}
