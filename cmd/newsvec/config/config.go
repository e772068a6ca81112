// Package configcmder provides the config command for managing persistent
// newsvec configuration stored in the .newsvec/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/pkg/cliui"
	"github.com/papercomputeco/newsvec/pkg/config"
)

const configLongDesc string = `Manage persistent newsvec configuration.

Configuration is stored as config.toml in the .newsvec/ directory and provides
default values for command flags. Environment variables (NEWSVEC_INDEX_COLLECTION,
NEWSVEC_EMBEDDING_MODEL, ...) override the file, and CLI flags override both.

Keys use dotted notation matching the TOML section structure:
  vector_store.provider, vector_store.target, vector_store.path,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  index.collection, index.limit,
  enrich.provider, enrich.target, enrich.model, enrich.max_text_size,
  api.listen, client.api_target,
  eventstream.provider, eventstream.brokers, eventstream.topic

Subcommands:
  newsvec config set <key> <value>    Write a value to config.toml
  newsvec config unset <key>          Restore a key to its default
  newsvec config get <key>            Show a value from config.toml
  newsvec config list [--effective]   Show every key

Examples:
  newsvec config set vector_store.provider qdrant
  newsvec config set embedding.model nomic-embed-text
  newsvec config unset vector_store.target
  newsvec config get index.collection
  newsvec config list --effective`

const configShortDesc string = "Manage persistent newsvec configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(
		newSetCmd(),
		newUnsetCmd(),
		newGetCmd(),
		newListCmd(),
	)

	return cmd
}

// openConfiger validates key, when given, and opens the config for the
// --config-dir flag.
func openConfiger(cmd *cobra.Command, key string) (*config.Configer, error) {
	if key != "" && !config.IsValidConfigKey(key) {
		return nil, fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfger, nil
}

func printTarget(out io.Writer, cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(target))
		return
	}
	fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}

// printValue writes one "key  value" line, with <not set> for empty values.
func printValue(out io.Writer, key, value string) {
	rendered := cliui.ValueStyle.Render(value)
	if value == "" {
		rendered = cliui.DimStyle.Render("<not set>")
	}
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render(key), rendered)
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
