package action

import (
	"bytes"
	"fmt"

	"github.com/custodia-chain/router/command/helper"
)

type ActionResult struct {
	Nonce  uint64 `json:"nonce"`
	Tag    string `json:"tag"`
	Digest string `json:"digest"`
}

func (r *ActionResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[CONSUMED ACTION]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Nonce|%d", r.Nonce),
		fmt.Sprintf("Tag|%s", r.Tag),
		fmt.Sprintf("Digest|%s", r.Digest),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
