package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/index"
)

var (
	searchToolName    = "search_articles"
	searchDescription = "Search indexed news articles by meaning. Returns the most relevant articles for the query text with their title, url, topics and relevance score."

	listToolName    = "list_articles"
	listDescription = "List every article stored in a collection."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query text to find relevant articles"`
	Limit      int    `json:"limit,omitempty" jsonschema:"number of results to return (default: 5)"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to search (default: news_articles)"`
}

// SearchOutput represents the output of the search tool.
type SearchOutput struct {
	Query      string         `json:"query"`
	Collection string         `json:"collection"`
	Results    []index.Result `json:"results"`
	Count      int            `json:"count"`
}

// ListInput represents the input arguments for the list tool.
type ListInput struct {
	Collection string `json:"collection,omitempty" jsonschema:"collection to list (default: news_articles)"`
}

// ListOutput represents the output of the list tool.
type ListOutput struct {
	Collection string           `json:"collection"`
	Records    []article.Record `json:"records"`
	Count      int              `json:"count"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger
	collection := s.collection(input.Collection)

	if input.Query == "" {
		return errorResult("query is required"), SearchOutput{}, nil
	}

	logger.Debug("MCP search request",
		"query", input.Query,
		"limit", input.Limit,
		"collection", collection,
	)

	results, err := s.config.Index.Search(ctx, input.Query, collection, input.Limit)
	if err != nil {
		logger.Error("MCP search failed", "error", err)
		return errorResult(fmt.Sprintf("Failed to search articles: %v", err)), SearchOutput{}, nil
	}

	output := SearchOutput{
		Query:      input.Query,
		Collection: collection,
		Results:    results,
		Count:      len(results),
	}

	return textResult(output)
}

// handleList processes a list request.
func (s *Server) handleList(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	logger := s.config.Logger
	collection := s.collection(input.Collection)

	records, err := s.config.Index.GetAll(ctx, collection)
	if err != nil {
		logger.Error("MCP list failed", "error", err)
		return errorResult(fmt.Sprintf("Failed to list articles: %v", err)), ListOutput{}, nil
	}

	output := ListOutput{
		Collection: collection,
		Records:    records,
		Count:      len(records),
	}

	return textResult(output)
}

// textResult serializes the structured output as JSON in a text block for
// clients that do not read structured content.
func textResult[T any](output T) (*mcp.CallToolResult, T, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		var zero T
		return errorResult(fmt.Sprintf("Failed to serialize results: %v", err)), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
