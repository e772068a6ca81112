package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/pkg/cliui"
)

func newUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Restore a configuration value to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			cfger, err := openConfiger(cmd, key)
			if err != nil {
				return err
			}

			if err := cfger.UnsetConfigValue(key); err != nil {
				return err
			}
			value, err := cfger.GetConfigValue(key)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTarget(out, cfger)
			fmt.Fprintf(out, "  %s Reset %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(key))
			printValue(out, key, value)
			fmt.Fprintln(out)
			return nil
		},
		ValidArgsFunction: completeKeys,
	}
}
