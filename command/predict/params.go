package predict

import (
	"github.com/custodia-chain/router/command/helper"
	"github.com/custodia-chain/router/types"
)

const (
	senderFlag  = "sender"
	counterFlag = "counter"
)

var (
	params = &predictParams{}
)

type predictParams struct {
	senderRaw string
	counter   uint64

	sender types.Address
}

func (p *predictParams) validateFlags() error {
	raw, err := helper.DecodeHex(p.senderRaw, types.AddressLength)
	if err != nil {
		return err
	}

	p.sender = types.BytesToAddress(raw)

	return nil
}
