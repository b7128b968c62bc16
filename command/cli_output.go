package command

import (
	"fmt"
	"os"
)

type cliOutput struct {
	result CommandResult
	err    error
}

func newCLIOutput() *cliOutput {
	return &cliOutput{}
}

func (cli *cliOutput) SetError(err error) {
	cli.err = err
}

func (cli *cliOutput) SetCommandResult(result CommandResult) {
	cli.result = result
}

func (cli *cliOutput) WriteOutput() {
	if cli.err != nil {
		_, _ = fmt.Fprintln(os.Stderr, cli.err.Error())

		os.Exit(1)
	}

	if cli.result != nil {
		_, _ = fmt.Fprintln(os.Stdout, cli.result.GetOutput())
	}
}
