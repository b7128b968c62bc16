package execute

import (
	"bytes"
	"fmt"

	"github.com/custodia-chain/router/command/helper"
)

type ExecuteResult struct {
	Nonce        uint64 `json:"nonce"`
	Coin         string `json:"coin"`
	Fee          string `json:"fee"`
	Instructions int    `json:"instructions"`
	Message      string `json:"message"`
	Digest       string `json:"digest"`
}

func (r *ExecuteResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[EXECUTE MESSAGE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Nonce|%d", r.Nonce),
		fmt.Sprintf("Coin|%s", r.Coin),
		fmt.Sprintf("Fee|%s", r.Fee),
		fmt.Sprintf("Instructions|%d", r.Instructions),
		fmt.Sprintf("Message|%s", r.Message),
		fmt.Sprintf("Digest|%s", r.Digest),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
