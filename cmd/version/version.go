// Package versioncmder provides the version command.
package versioncmder

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/pkg/utils"
)

// Info is the build information printed by "newsvec version".
type Info struct {
	Version   string `json:"version"`
	Sha       string `json:"sha"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentInfo() Info {
	return Info{
		Version:   utils.BuildVersion(),
		Sha:       utils.Sha,
		BuildTime: utils.Buildtime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the newsvec version",
		Long:  "Print the newsvec version, commit, build time and Go toolchain.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := currentInfo()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Fprintf(out, "newsvec %s\nSha: %s\nBuilt at: %s\nGo: %s %s\n",
				info.Version, info.Sha, info.BuildTime, info.GoVersion, info.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}
