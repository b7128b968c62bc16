package root

import (
	"fmt"
	"os"

	"github.com/custodia-chain/router/command/digest"
	"github.com/custodia-chain/router/command/helper"
	"github.com/custodia-chain/router/command/predict"
	"github.com/custodia-chain/router/command/store"
	"github.com/custodia-chain/router/command/verify"
	"github.com/custodia-chain/router/command/version"
	"github.com/spf13/cobra"
)

type RootCommand struct {
	baseCmd *cobra.Command
}

func NewRootCommand() *RootCommand {
	rootCommand := &RootCommand{
		baseCmd: &cobra.Command{
			Short: "Router is an action-authorization and batch-execution engine for threshold-key custody",
		},
	}

	helper.RegisterJSONOutputFlag(rootCommand.baseCmd)

	rootCommand.registerSubCommands()

	return rootCommand
}

func (rc *RootCommand) registerSubCommands() {
	rc.baseCmd.AddCommand(
		version.GetCommand(),
		digest.GetCommand(),
		verify.GetCommand(),
		predict.GetCommand(),
		store.GetCommand(),
	)
}

func (rc *RootCommand) Execute() {
	if err := rc.baseCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
