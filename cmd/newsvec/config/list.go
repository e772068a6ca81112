package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/pkg/config"
)

const listLongDesc string = `List all configuration values.

Without flags the values of config.toml are shown, with defaults for keys the
file does not set. With --effective the values newsvec would actually use are
shown, including NEWSVEC_* environment overrides, along with where each one
came from.

Examples:
  newsvec config list
  NEWSVEC_INDEX_COLLECTION=world newsvec config list --effective`

func newListCmd() *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfger, err := openConfiger(cmd, "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if target := cfger.GetTarget(); target != "" {
				fmt.Fprintf(out, "Using config file: %s\n\n", target)
			} else {
				fmt.Fprint(out, "No config file found. Using default config.\n\n")
			}

			if effective {
				return listEffective(out, cfger.Dir())
			}
			return listFile(out, cfger)
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, "Show values after environment overrides and their source")
	return cmd
}

func keyWidth() int {
	width := 0
	for _, k := range config.ValidConfigKeys() {
		width = max(width, len(k))
	}
	return width
}

func formatValue(value string) string {
	if value == "" {
		return "<not set>"
	}
	return fmt.Sprintf("%q", value)
}

func listFile(out io.Writer, cfger *config.Configer) error {
	width := keyWidth()
	for _, key := range config.ValidConfigKeys() {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-*s = %s\n", width, key, formatValue(value))
	}
	return nil
}

func listEffective(out io.Writer, dir string) error {
	v, err := config.InitViper(dir)
	if err != nil {
		return err
	}

	width := keyWidth()
	for _, key := range config.ValidConfigKeys() {
		value, src := config.Effective(v, key, false)
		fmt.Fprintf(out, "%-*s = %-24s (%s)\n", width, key, formatValue(value), src)
	}
	return nil
}
