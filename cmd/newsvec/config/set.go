package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/pkg/cliui"
)

const setLongDesc string = `Set a configuration value.

Writes the key to config.toml in the .newsvec/ directory. Numeric keys
(embedding.dimensions, index.limit, enrich.max_text_size) must be
non-negative integers.

Examples:
  newsvec config set vector_store.provider qdrant
  newsvec config set vector_store.target localhost:6334
  newsvec config set embedding.dimensions 768
  newsvec config set eventstream.brokers broker-1:9092,broker-2:9092`

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			cfger, err := openConfiger(cmd, key)
			if err != nil {
				return err
			}

			if err := cfger.SetConfigValue(key, value); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTarget(out, cfger)
			fmt.Fprintf(out, "  %s Set %s = %s\n\n", cliui.SuccessMark, cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
			return nil
		},
		ValidArgsFunction: completeKeys,
	}
}
