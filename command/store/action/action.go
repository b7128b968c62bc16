package action

import (
	"github.com/custodia-chain/router/command"
	"github.com/custodia-chain/router/command/helper"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	actionCmd := &cobra.Command{
		Use:   "action",
		Short: "Returns the action consumed at a nonce",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}

	setFlags(actionCmd)

	return actionCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(
		&params.nonce,
		nonceFlag,
		0,
		"the nonce the action consumed",
	)

	_ = cmd.MarkFlagRequired(nonceFlag)
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

	record, err := st.ReadAction(params.nonce)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&ActionResult{
		Nonce:  record.Nonce,
		Tag:    record.Tag,
		Digest: record.Digest.String(),
	})
}
