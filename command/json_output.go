package command

import (
	"encoding/json"
	"fmt"
	"os"
)

type jsonOutput struct {
	result CommandResult
	err    error
}

func newJSONOutput() *jsonOutput {
	return &jsonOutput{}
}

func (jo *jsonOutput) SetError(err error) {
	jo.err = err
}

func (jo *jsonOutput) SetCommandResult(result CommandResult) {
	jo.result = result
}

func (jo *jsonOutput) WriteOutput() {
	if jo.err != nil {
		output, _ := json.Marshal(struct {
			Err string `json:"error"`
		}{
			Err: jo.err.Error(),
		})

		_, _ = fmt.Fprintln(os.Stderr, string(output))

		os.Exit(1)
	}

	if jo.result != nil {
		output, err := json.MarshalIndent(jo.result, "", "    ")
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err.Error())

			os.Exit(1)
		}

		_, _ = fmt.Fprintln(os.Stdout, string(output))
	}
}
