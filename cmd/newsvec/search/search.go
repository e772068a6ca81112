// Package searchcmder provides the search command for semantic search over
// indexed articles.
package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/api"
	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	"github.com/papercomputeco/newsvec/pkg/cliui"
	"github.com/papercomputeco/newsvec/pkg/config"
	"github.com/papercomputeco/newsvec/pkg/index"
)

type searchCommander struct {
	query  string
	full   bool
	json   bool
	remote bool

	settings *stack.Settings
	logger   *slog.Logger
	out      io.Writer
}

const searchLongDesc string = `Search indexed articles by meaning.

The query is embedded with the configured embedding provider and matched
against article documents in the collection. Results are ranked by
relevance, most relevant first.

By default the index is opened directly. Use --remote to query a running
newsvec API server at client.api_target instead.

Examples:
  newsvec search "central bank interest rates"
  newsvec search "transfer window" --limit 10 --collection sports
  newsvec search "climate policy" --full
  newsvec search "climate policy" --json | jq '.results[].url'
  newsvec search "elections" --remote --api-target http://localhost:8081`

const searchShortDesc string = "Search indexed articles"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}
	keys := append([]string{config.FlagLimit, config.FlagAPITarget}, stack.IndexFlags...)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := stack.Load(cmd, keys...)
			if err != nil {
				return err
			}
			cmder.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = strings.TrimSpace(strings.Join(args, " "))
			if cmder.query == "" {
				return fmt.Errorf("query cannot be empty")
			}

			cmder.logger = stack.NewLogger(cmd)
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&cmder.full, "full", false, "Show full article documents")
	cmd.Flags().BoolVar(&cmder.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&cmder.remote, "remote", false, "Query a running newsvec API server")
	stack.RegisterFlags(cmd, keys...)

	return cmd
}

func (c *searchCommander) run(ctx context.Context) error {
	collection := c.settings.Index.Collection
	limit := c.settings.Index.Limit

	var (
		output *api.SearchResponse
		err    error
	)
	if c.remote {
		output, err = SearchAPI(ctx, c.settings.Client.APITarget, c.query, collection, limit)
	} else {
		output, err = c.searchLocal(ctx, collection, limit)
	}
	if err != nil {
		return err
	}

	if c.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	if output.Count == 0 {
		fmt.Fprintln(c.out, "No results found.")
		return nil
	}

	md := cliui.SearchResultsMarkdown(output.Query, output.Results, c.full)
	if err := cliui.RenderMarkdown(c.out, md); err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
	}
	return nil
}

func (c *searchCommander) searchLocal(ctx context.Context, collection string, limit int) (*api.SearchResponse, error) {
	svc, err := stack.NewService(ctx, c.settings, c.logger)
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	results, err := svc.Search(ctx, c.query, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", collection, err)
	}

	if collection == "" {
		collection = index.DefaultCollection
	}
	return &api.SearchResponse{
		Query:      c.query,
		Collection: collection,
		Results:    results,
		Count:      len(results),
	}, nil
}

// SearchAPI calls the newsvec search API and returns the parsed output.
func SearchAPI(ctx context.Context, apiTarget, query, collection string, limit int) (*api.SearchResponse, error) {
	searchURL, err := url.Parse(apiTarget)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	searchURL.Path = "/v1/search"
	q := searchURL.Query()
	q.Set("query", query)
	if collection != "" {
		q.Set("collection", collection)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	searchURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to newsvec API at %s: %w", apiTarget, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr api.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("search request failed (HTTP %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("search request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var output api.SearchResponse
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return &output, nil
}
