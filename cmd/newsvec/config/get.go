package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from config.toml in the .newsvec/
directory. Keys that are not in the file show their default. Use
"newsvec config list --effective" to include environment overrides.

Examples:
  newsvec config get index.collection
  newsvec config get embedding.model`

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			cfger, err := openConfiger(cmd, key)
			if err != nil {
				return err
			}

			value, err := cfger.GetConfigValue(key)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTarget(out, cfger)
			printValue(out, key, value)
			fmt.Fprintln(out)
			return nil
		},
		ValidArgsFunction: completeKeys,
	}
}
