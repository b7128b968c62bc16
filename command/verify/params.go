package verify

import (
	"github.com/custodia-chain/router/command/helper"
	"github.com/custodia-chain/router/schnorr"
	"github.com/custodia-chain/router/types"
)

const (
	keyFlag       = "key"
	signatureFlag = "signature"
	messageFlag   = "message"
)

var (
	params = &verifyParams{}
)

type verifyParams struct {
	keyRaw       string
	signatureRaw string
	messageRaw   string

	key       *schnorr.PublicKey
	signature *schnorr.Signature
	message   []byte
}

func (p *verifyParams) validateFlags() error {
	keyBytes, err := helper.DecodeHex(p.keyRaw, types.HashLength)
	if err != nil {
		return err
	}

	if p.key, err = schnorr.PublicKeyFromBytes(keyBytes); err != nil {
		return err
	}

	sigBytes, err := helper.DecodeHex(p.signatureRaw, schnorr.SignatureLength)
	if err != nil {
		return err
	}

	if p.signature, err = schnorr.ParseSignature(sigBytes); err != nil {
		return err
	}

	if p.message, err = helper.DecodeHex(p.messageRaw, -1); err != nil {
		return err
	}

	return nil
}
