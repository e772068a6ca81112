// Package mcp provides an MCP (Model Context Protocol) server exposing the
// article index as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/utils"
)

// Index is the part of index.Service the tools need.
type Index interface {
	GetAll(ctx context.Context, collection string) ([]article.Record, error)
	Search(ctx context.Context, query, collection string, limit int) ([]index.Result, error)
}

type Config struct {
	// Index answers searches and listings. Required.
	Index Index

	// DefaultCollection is used when a tool call names no collection.
	DefaultCollection string

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the search and list tools.
func NewServer(c Config) (*Server, error) {
	if c.Index == nil {
		return nil, errors.New("index is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.DefaultCollection == "" {
		c.DefaultCollection = index.DefaultCollection
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "newsvec",
			Version: utils.BuildVersion(),
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        searchToolName,
		Description: searchDescription,
	}, s.handleSearch)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listToolName,
		Description: listDescription,
	}, s.handleList)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) collection(name string) string {
	if name == "" {
		return s.config.DefaultCollection
	}
	return name
}
