package escapehatch

import (
	"errors"

	"github.com/custodia-chain/router/command/helper"
	"github.com/custodia-chain/router/types"
)

const (
	nonceFlag  = "nonce"
	targetFlag = "target"
)

var (
	params = &escapeHatchParams{}
)

type escapeHatchParams struct {
	nonce     uint64
	targetRaw string

	target types.Address
}

func (p *escapeHatchParams) validateFlags() error {
	raw, err := helper.DecodeHex(p.targetRaw, types.AddressLength)
	if err != nil {
		return err
	}

	p.target = types.BytesToAddress(raw)
	if p.target.IsZero() {
		return errors.New("escape target must not be the zero address")
	}

	return nil
}
