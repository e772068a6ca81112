// Package listcmder provides the list command for showing every article
// stored in a collection.
package listcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/api"
	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	"github.com/papercomputeco/newsvec/pkg/cliui"
	"github.com/papercomputeco/newsvec/pkg/index"
)

type listCommander struct {
	full bool
	json bool

	settings *stack.Settings
	logger   *slog.Logger
	out      io.Writer
}

const listLongDesc string = `List the articles stored in a collection.

Articles are printed in store order with their title, URL, publish date and
topics. Use --full to include the stored document text.

Examples:
  newsvec list
  newsvec list --collection tech --full
  newsvec list --json`

const listShortDesc string = "List stored articles"

func NewListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := stack.Load(cmd, stack.IndexFlags...)
			if err != nil {
				return err
			}
			cmder.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.logger = stack.NewLogger(cmd)
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&cmder.full, "full", false, "Show full article documents")
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Output records as JSON")
	stack.RegisterFlags(cmd, stack.IndexFlags...)

	return cmd
}

func (c *listCommander) run(ctx context.Context) error {
	svc, err := stack.NewService(ctx, c.settings, c.logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	collection := c.settings.Index.Collection
	if collection == "" {
		collection = index.DefaultCollection
	}

	records, err := svc.GetAll(ctx, collection)
	if err != nil {
		return fmt.Errorf("listing %s: %w", collection, err)
	}

	if c.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.ListResponse{Collection: collection, Records: records, Count: len(records)})
	}

	if len(records) == 0 {
		fmt.Fprintf(c.out, "No articles in %s.\n", collection)
		return nil
	}

	if err := cliui.RenderMarkdown(c.out, cliui.RecordsMarkdown(collection, records, c.full)); err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
	}
	return nil
}
