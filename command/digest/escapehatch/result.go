package escapehatch

import (
	"bytes"
	"fmt"

	"github.com/custodia-chain/router/command/helper"
)

type EscapeHatchResult struct {
	Nonce   uint64 `json:"nonce"`
	Target  string `json:"target"`
	Message string `json:"message"`
	Digest  string `json:"digest"`
}

func (r *EscapeHatchResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[ESCAPE HATCH MESSAGE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Nonce|%d", r.Nonce),
		fmt.Sprintf("Target|%s", r.Target),
		fmt.Sprintf("Message|%s", r.Message),
		fmt.Sprintf("Digest|%s", r.Digest),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
