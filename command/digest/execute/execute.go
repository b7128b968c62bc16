package execute

import (
	"encoding/hex"

	"github.com/custodia-chain/router/command"
	"github.com/custodia-chain/router/crypto"
	"github.com/custodia-chain/router/router"
	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	executeCmd := &cobra.Command{
		Use:     "execute",
		Short:   "Builds the message a batch must be signed over",
		Args:    cobra.NoArgs,
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	setFlags(executeCmd)

	return executeCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(
		&params.nonce,
		nonceFlag,
		0,
		"the nonce the batch will consume",
	)

	cmd.Flags().StringVar(
		&params.coinRaw,
		coinFlag,
		"0x0000000000000000000000000000000000000000",
		"the batch asset, the zero address for the native asset",
	)

	cmd.Flags().StringVar(
		&params.feeRaw,
		feeFlag,
		"0",
		"the relayer fee, denominated in the batch asset",
	)

	cmd.Flags().StringVar(
		&params.outsPath,
		outsFlag,
		"",
		"path to the JSON file listing the batch instructions",
	)

	_ = cmd.MarkFlagRequired(nonceFlag)
	_ = cmd.MarkFlagRequired(outsFlag)
}

func runPreRun(cmd *cobra.Command, _ []string) error {
	return params.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	msg, err := router.ExecuteMessage(params.nonce, params.coin, params.fee, params.outs)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&ExecuteResult{
		Nonce:        params.nonce,
		Coin:         params.coin.String(),
		Fee:          params.fee.String(),
		Instructions: len(params.outs),
		Message:      "0x" + hex.EncodeToString(msg),
		Digest:       crypto.Keccak256Hash(msg).String(),
	})
}
