package updatekey

import (
	"encoding/hex"

	"github.com/custodia-chain/router/command"
	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/router"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	updateKeyCmd := &cobra.Command{
		Use:     "update-key",
		Short:   "Builds the message a key update must be signed over",
		Args:    cobra.NoArgs,
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	setFlags(updateKeyCmd)

	return updateKeyCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(
		&params.nonce,
		nonceFlag,
		0,
		"the nonce the update will consume",
	)

	cmd.Flags().StringVar(
		&params.keyRaw,
		keyFlag,
		"",
		"the 32-byte replacement key",
	)

	_ = cmd.MarkFlagRequired(nonceFlag)
	_ = cmd.MarkFlagRequired(keyFlag)
}

func runPreRun(cmd *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	msg, err := router.UpdateKeyMessage(params.nonce, params.key)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&UpdateKeyResult{
		Nonce:   params.nonce,
		Message: "0x" + hex.EncodeToString(msg),
		Digest:  crypto.Keccak256Hash(msg).String(),
	})
}
