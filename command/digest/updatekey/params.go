package updatekey

import (
	"github.com/custodia-chain/router/command/helper"
	"github.com/custodia-chain/router/schnorr"
	"github.com/custodia-chain/router/types"
)

const (
	nonceFlag = "nonce"
	keyFlag   = "key"
)

var (
	params = &updateKeyParams{}
)

type updateKeyParams struct {
	nonce  uint64
	keyRaw string

	key *schnorr.PublicKey
}

func (p *updateKeyParams) validateFlags() error {
	keyBytes, err := helper.DecodeHex(p.keyRaw, types.HashLength)
	if err != nil {
		return err
	}

	if p.key, err = schnorr.PublicKeyFromBytes(keyBytes); err != nil {
		return err
	}

	return nil
}
