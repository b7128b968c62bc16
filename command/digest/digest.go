package digest

import (
	"github.com/custodia-chain/router/command/digest/escapehatch"
	"github.com/custodia-chain/router/command/digest/execute"
	"github.com/custodia-chain/router/command/digest/updatekey"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Top level command for building action messages and their digests. Only accepts subcommands.",
	}

	registerSubcommands(digestCmd)

	return digestCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	baseCmd.AddCommand(
		// digest update-key
		updatekey.GetCommand(),
		// digest execute
		execute.GetCommand(),
		// digest escape-hatch
		escapehatch.GetCommand(),
	)
}
