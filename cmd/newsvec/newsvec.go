// Package newsvecmder
package newsvecmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/pkg/cliui"

	authcmder "github.com/papercomputeco/newsvec/cmd/newsvec/auth"
	configcmder "github.com/papercomputeco/newsvec/cmd/newsvec/config"
	ingestcmder "github.com/papercomputeco/newsvec/cmd/newsvec/ingest"
	initcmder "github.com/papercomputeco/newsvec/cmd/newsvec/init"
	listcmder "github.com/papercomputeco/newsvec/cmd/newsvec/list"
	resetcmder "github.com/papercomputeco/newsvec/cmd/newsvec/reset"
	searchcmder "github.com/papercomputeco/newsvec/cmd/newsvec/search"
	servecmder "github.com/papercomputeco/newsvec/cmd/newsvec/serve"
	versioncmder "github.com/papercomputeco/newsvec/cmd/version"
)

const newsvecLongDesc string = `newsvec indexes processed news articles in a vector store and
searches them by meaning.

Get started:
  newsvec init                      Create a local .newsvec/ directory
  newsvec auth openai               Store an OpenAI API key
  newsvec ingest articles/          Store article JSON files
  newsvec search "interest rates"   Search stored articles
  newsvec serve                     Run the HTTP and MCP API server`

const newsvecShortDesc string = "newsvec - semantic news article search"

func NewNewsvecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "newsvec",
		Short:        newsvecShortDesc,
		Long:         newsvecLongDesc,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			color, _ := cmd.Flags().GetString("color")
			return cliui.SetColorMode(color)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .newsvec/ config directory")
	cmd.PersistentFlags().String("color", cliui.ColorAuto, "Colorize output (auto, always, never)")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(listcmder.NewListCmd())
	cmd.AddCommand(resetcmder.NewResetCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
