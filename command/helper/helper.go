package helper

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/custodia-chain/router/command"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

// FormatKV formats key value pairs:
//
// Key = Value
//
// Key = <none>
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

// FormatList formats a list, wherein each element is a whitespace
// separated row
func FormatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"

	return columnize.Format(in, columnConf)
}

func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(
		command.JSONOutputFlag,
		false,
		"get all outputs in json format (default false)",
	)
}

func RegisterDataDirFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.DataDirFlag,
		command.DefaultDataDir,
		"the data directory of the engine store",
	)
}

func GetDataDir(cmd *cobra.Command) string {
	return cmd.Flag(command.DataDirFlag).Value.String()
}

// DecodeHex strictly decodes a possibly 0x-prefixed hex string of an
// expected byte length. A negative length skips the length check.
func DecodeHex(str string, length int) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}

	if length >= 0 && len(b) != length {
		return nil, fmt.Errorf("expected %d bytes, got %d", length, len(b))
	}

	return b, nil
}
