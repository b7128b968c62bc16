package updatekey

import (
	"bytes"
	"fmt"

	"github.com/custodia-chain/router/command/helper"
)

type UpdateKeyResult struct {
	Nonce   uint64 `json:"nonce"`
	Message string `json:"message"`
	Digest  string `json:"digest"`
}

func (r *UpdateKeyResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[UPDATE KEY MESSAGE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Nonce|%d", r.Nonce),
		fmt.Sprintf("Message|%s", r.Message),
		fmt.Sprintf("Digest|%s", r.Digest),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
