package predict

import (
	"github.com/custodia-chain/router/command"
	"github.com/custodia-chain/router/crypto"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	predictCmd := &cobra.Command{
		Use:     "predict",
		Short:   "Predicts the address a sandboxed deployment will occupy",
		Args:    cobra.NoArgs,
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	setFlags(predictCmd)

	return predictCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&params.senderRaw,
		senderFlag,
		"",
		"the engine address performing the deployment",
	)

	cmd.Flags().Uint64Var(
		&params.counter,
		counterFlag,
		0,
		"the engine's deployment counter",
	)

	_ = cmd.MarkFlagRequired(senderFlag)
}

func runPreRun(cmd *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	predicted := crypto.CreateAddress(params.sender, params.counter)

	outputter.SetCommandResult(&PredictResult{
		Sender:  params.sender.String(),
		Counter: params.counter,
		Address: predicted.String(),
	})
}
