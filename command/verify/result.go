package verify

import (
	"bytes"
	"fmt"

	"github.com/custodia-chain/router/command/helper"
)

type VerifyResult struct {
	Valid bool `json:"valid"`
}

func (r *VerifyResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[SIGNATURE]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Valid|%t", r.Valid),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}
