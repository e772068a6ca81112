// Package servecmder provides the serve command for running the newsvec API
// server.
package servecmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/api"
	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	"github.com/papercomputeco/newsvec/pkg/config"
	"github.com/papercomputeco/newsvec/pkg/enrich"
	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/ingest"
	"github.com/papercomputeco/newsvec/pkg/logger"
)

type serveCommander struct {
	watch   string
	enrich  bool
	logFile string

	settings *stack.Settings
	logger   *slog.Logger
}

const serveLongDesc string = `Run the newsvec API server.

The server exposes the article index over HTTP:
  POST   /v1/articles                    Store an article
  GET    /v1/collections/:name/articles  List a collection
  DELETE /v1/collections/:name           Delete a collection
  GET    /v1/search?query=...            Search a collection
  /mcp                                   MCP tools for agents

Use --watch to also ingest article files written to a directory while the
server runs. Use --log-file to keep JSON logs alongside the console output.

Examples:
  newsvec serve
  newsvec serve --listen :9090 --vector-store-provider qdrant
  newsvec serve --watch ./inbox --enrich`

const serveShortDesc string = "Run the newsvec API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}
	keys := append([]string{config.FlagAPIListen, config.FlagLimit}, stack.IndexFlags...)
	keys = append(keys, stack.EnrichFlags...)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := stack.Load(cmd, keys...)
			if err != nil {
				return err
			}
			cmder.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := cmder.newLogger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			cmder.logger = log
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.watch, "watch", "w", "", "Directory to watch for new article files")
	cmd.Flags().BoolVar(&cmder.enrich, "enrich", false, "Generate summaries and topics for watched articles without a summary")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also append JSON logs to this file")
	stack.RegisterFlags(cmd, keys...)

	return cmd
}

// newLogger returns the CLI logger, fanned out to a JSON log file when
// --log-file is set.
func (c *serveCommander) newLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	cli := stack.NewLogger(cmd)
	if c.logFile == "" {
		return cli, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	file := logger.New(
		logger.WithFormat(logger.FormatJSON),
		logger.WithDebug(debug),
		logger.WithWriter(f),
	)
	return logger.Multi(cli, file), func() { _ = f.Close() }, nil
}

func (c *serveCommander) run(ctx context.Context) error {
	svc, err := stack.NewService(ctx, c.settings, c.logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	server, err := api.NewServer(api.Config{
		ListenAddr:        c.settings.API.Listen,
		DefaultCollection: c.settings.Index.Collection,
		DefaultLimit:      c.settings.Index.Limit,
	}, svc, c.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Channel to capture errors from goroutines
	errChan := make(chan error, 2)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	if c.watch != "" {
		pool, err := c.startWatcher(ctx, svc, errChan)
		if err != nil {
			_ = server.Shutdown()
			return err
		}
		defer pool.Close()
	}

	select {
	case err := <-errChan:
		stop()
		_ = server.Shutdown()
		return err
	case <-ctx.Done():
		c.logger.Info("shutting down")
		return server.Shutdown()
	}
}

func (c *serveCommander) startWatcher(ctx context.Context, svc *index.Service, errChan chan<- error) (*ingest.Pool, error) {
	var enricher enrich.Enricher
	if c.enrich {
		var err error
		enricher, err = stack.NewEnricher(c.settings, c.logger)
		if err != nil {
			return nil, err
		}
	}

	pool, err := ingest.NewPool(&ingest.Config{
		Storer:   svc,
		Enricher: enricher,
		Logger:   c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating ingest pool: %w", err)
	}

	go func() {
		for r := range pool.Results() {
			if r.Err != nil {
				c.logger.Error("article not stored", "source", r.Job.Source, "url", r.Job.Article.URL, "error", r.Err)
				continue
			}
			c.logger.Info("article stored", "id", r.Record.ID, "url", r.Record.URL(), "collection", r.Job.Collection)
		}
	}()

	go func() {
		if err := pool.Watch(ctx, c.watch, c.settings.Index.Collection); err != nil {
			errChan <- err
		}
	}()

	return pool, nil
}
