package store

import (
	"github.com/custodia-chain/router/command/helper"
	"github.com/custodia-chain/router/command/store/action"
	"github.com/custodia-chain/router/command/store/state"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Top level command for inspecting a persisted engine store. Only accepts subcommands.",
	}

	helper.RegisterDataDirFlag(storeCmd)

	registerSubcommands(storeCmd)

	return storeCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	baseCmd.AddCommand(
		// store state
		state.GetCommand(),
		// store action
		action.GetCommand(),
	)
}
