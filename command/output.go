package command

import (
	"github.com/spf13/cobra"
)

// CommandResult is the human-readable rendering of a command's outcome
type CommandResult interface {
	GetOutput() string
}

// OutputFormatter collects a command's result or error and writes it
// out in the requested format
type OutputFormatter interface {
	// SetError sets the encountered error
	SetError(err error)

	// SetCommandResult sets the result of the command execution
	SetCommandResult(result CommandResult)

	// WriteOutput writes the previously set result / error
	WriteOutput()
}

// InitializeOutputter returns the outputter matching the output flags
// of the command
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	if shouldOutputJSON(cmd) {
		return newJSONOutput()
	}

	return newCLIOutput()
}

func shouldOutputJSON(baseCmd *cobra.Command) bool {
	flag := baseCmd.Flag(JSONOutputFlag)

	return flag != nil && flag.Changed
}
