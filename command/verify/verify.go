package verify

import (
	"github.com/custodia-chain/router/command"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:     "verify",
		Short:   "Verifies a signature against a key and a message",
		Args:    cobra.NoArgs,
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	setFlags(verifyCmd)

	return verifyCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&params.keyRaw,
		keyFlag,
		"",
		"the 32-byte authoritative key",
	)

	cmd.Flags().StringVar(
		&params.signatureRaw,
		signatureFlag,
		"",
		"the 64-byte signature",
	)

	cmd.Flags().StringVar(
		&params.messageRaw,
		messageFlag,
		"",
		"the signed message bytes",
	)

	_ = cmd.MarkFlagRequired(keyFlag)
	_ = cmd.MarkFlagRequired(signatureFlag)
	_ = cmd.MarkFlagRequired(messageFlag)
}

func runPreRun(cmd *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	outputter.SetCommandResult(&VerifyResult{
		Valid: params.signature.Verify(params.key, params.message),
	})
}
