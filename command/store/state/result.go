package state

import (
	"bytes"
	"fmt"

	"github.com/custodia-chain/router/command/helper"
)

type StateResult struct {
	Key       string `json:"key"`
	NextNonce uint64 `json:"nextNonce"`
	EscapedTo string `json:"escapedTo"`
}

func (r *StateResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[ENGINE STATE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Key|%s", r.Key),
		fmt.Sprintf("Next Nonce|%d", r.NextNonce),
		fmt.Sprintf("Escaped To|%s", r.EscapedTo),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
