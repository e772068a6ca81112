// Package resetcmder provides the reset command for deleting a collection
// and every article in it.
package resetcmder

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	"github.com/papercomputeco/newsvec/pkg/cliui"
	"github.com/papercomputeco/newsvec/pkg/index"
)

const resetLongDesc string = `Delete a collection and every article stored in it.

The collection is re-created empty the next time it is written to or
searched. Deleting a collection that does not exist succeeds.

You are asked to confirm unless --yes is given.

Examples:
  newsvec reset
  newsvec reset --collection tech --yes`

const resetShortDesc string = "Delete every article in a collection"

func NewResetCmd() *cobra.Command {
	var yes bool
	var settings *stack.Settings

	cmd := &cobra.Command{
		Use:   "reset",
		Short: resetShortDesc,
		Long:  resetLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			settings, err = stack.Load(cmd, stack.IndexFlags...)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			collection := settings.Index.Collection
			if collection == "" {
				collection = index.DefaultCollection
			}

			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), collection) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}

			return runReset(cmd, settings, collection)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	stack.RegisterFlags(cmd, stack.IndexFlags...)

	return cmd
}

func runReset(cmd *cobra.Command, settings *stack.Settings, collection string) error {
	ctx := cmd.Context()
	log := stack.NewLogger(cmd)

	svc, err := stack.NewService(ctx, settings, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	return cliui.Step(cmd.OutOrStdout(), "Deleting "+collection, func() error {
		return svc.DeleteAll(ctx, collection)
	})
}

func confirm(in io.Reader, out io.Writer, collection string) bool {
	fmt.Fprintf(out, "Delete every article in %s? [y/N]: ", collection)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
