package state

import (
	"github.com/custodia-chain/router/command"
	"github.com/custodia-chain/router/command/helper"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Returns the persisted engine state record",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	st, err := helper.OpenStore(helper.GetDataDir(cmd))
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer st.Close()

	record, err := st.ReadState()
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&StateResult{
		Key:       record.Key.String(),
		NextNonce: record.NextNonce,
		EscapedTo: record.EscapedTo.String(),
	})
}
