package predict

import (
	"bytes"
	"fmt"

	"github.com/custodia-chain/router/command/helper"
)

type PredictResult struct {
	Sender  string `json:"sender"`
	Counter uint64 `json:"counter"`
	Address string `json:"address"`
}

func (r *PredictResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[DEPLOYMENT ADDRESS]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Sender|%s", r.Sender),
		fmt.Sprintf("Counter|%d", r.Counter),
		fmt.Sprintf("Address|%s", r.Address),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
