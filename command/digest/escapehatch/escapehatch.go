package escapehatch

import (
	"encoding/hex"

	"github.com/custodia-chain/router/command"
	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/router"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	escapeHatchCmd := &cobra.Command{
		Use:     "escape-hatch",
		Short:   "Builds the message an escape hatch trigger must be signed over",
		Args:    cobra.NoArgs,
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	setFlags(escapeHatchCmd)

	return escapeHatchCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(
		&params.nonce,
		nonceFlag,
		0,
		"the nonce the trigger will consume",
	)

	cmd.Flags().StringVar(
		&params.targetRaw,
		targetFlag,
		"",
		"the address funds will escape to",
	)

	_ = cmd.MarkFlagRequired(nonceFlag)
	_ = cmd.MarkFlagRequired(targetFlag)
}

func runPreRun(cmd *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	msg, err := router.EscapeHatchMessage(params.nonce, params.target)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&EscapeHatchResult{
		Nonce:   params.nonce,
		Target:  params.target.String(),
		Message: "0x" + hex.EncodeToString(msg),
		Digest:  crypto.Keccak256Hash(msg).String(),
	})
}
