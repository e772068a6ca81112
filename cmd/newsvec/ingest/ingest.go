// Package ingestcmder provides the ingest command for storing processed
// article files in the index.
package ingestcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/newsvec/cmd/newsvec/stack"
	"github.com/papercomputeco/newsvec/pkg/cliui"
	"github.com/papercomputeco/newsvec/pkg/enrich"
	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/ingest"
)

type ingestCommander struct {
	paths   []string
	enrich  bool
	watch   string
	workers uint

	settings *stack.Settings
	logger   *slog.Logger
	out      io.Writer
}

const ingestLongDesc string = `Ingest processed news articles into the index.

Each path is an article JSON file or a directory of them. A file holds a
single article object or an array of articles with url, title, text,
summary, topics and publish_date fields. Articles are keyed by URL, so
ingesting the same article twice updates it in place.

Use --enrich to generate a summary and topics with the configured LLM for
articles that arrive without a summary.

Use --watch to keep running and ingest every article file written to a
directory until interrupted.

Examples:
  newsvec ingest articles/
  newsvec ingest today.json --collection tech
  newsvec ingest raw/ --enrich --workers 8
  newsvec ingest --watch ./inbox`

const ingestShortDesc string = "Ingest article files into the index"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}
	keys := append(append([]string{}, stack.IndexFlags...), stack.EnrichFlags...)

	cmd := &cobra.Command{
		Use:   "ingest [paths...]",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && cmder.watch == "" {
				return fmt.Errorf("at least one path or --watch is required")
			}

			settings, err := stack.Load(cmd, keys...)
			if err != nil {
				return err
			}
			cmder.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.paths = args
			cmder.logger = stack.NewLogger(cmd)
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&cmder.enrich, "enrich", false, "Generate summaries and topics for articles without a summary")
	cmd.Flags().StringVarP(&cmder.watch, "watch", "w", "", "Directory to watch for new article files")
	cmd.Flags().UintVar(&cmder.workers, "workers", 3, "Number of concurrent ingest workers")
	stack.RegisterFlags(cmd, keys...)

	return cmd
}

func (c *ingestCommander) run(ctx context.Context) error {
	svc, err := stack.NewService(ctx, c.settings, c.logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	var enricher enrich.Enricher
	if c.enrich {
		enricher, err = stack.NewEnricher(c.settings, c.logger)
		if err != nil {
			return err
		}
	}

	pool, err := ingest.NewPool(&ingest.Config{
		Storer:     svc,
		Enricher:   enricher,
		NumWorkers: c.workers,
		Logger:     c.logger,
		Context:    ctx,
	})
	if err != nil {
		return fmt.Errorf("creating ingest pool: %w", err)
	}

	tally := &tally{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range pool.Results() {
			tally.add(r, c.logger)
		}
	}()

	collection := c.settings.Index.Collection
	if collection == "" {
		collection = index.DefaultCollection
	}

	err = c.ingestPaths(ctx, pool, collection)
	if err == nil && c.watch != "" {
		err = c.watchDir(ctx, pool, collection)
	}

	pool.Close()
	<-done

	fmt.Fprintf(c.out, "\n  %s %s stored, %s failed in %s\n",
		cliui.Mark(tally.failErr()),
		cliui.ValueStyle.Render(fmt.Sprint(tally.stored)),
		cliui.ValueStyle.Render(fmt.Sprint(tally.failed)),
		cliui.KeyStyle.Render(collection),
	)
	if tally.skipped > 0 {
		fmt.Fprintf(c.out, "  %s\n", cliui.WarnStyle.Render(fmt.Sprintf("%d article(s) skipped after interrupt", tally.skipped)))
	}
	fmt.Fprintln(c.out)

	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil && c.watch == "" {
		return ctxErr
	}
	return tally.failErr()
}

func (c *ingestCommander) ingestPaths(ctx context.Context, pool *ingest.Pool, collection string) error {
	if len(c.paths) == 0 {
		return nil
	}

	files, err := ingest.ExpandPaths(c.paths)
	if err != nil {
		return err
	}
	if len(files) == 0 && c.watch == "" {
		return stack.ErrNoArticles
	}

	for _, file := range files {
		var jobs []ingest.Job
		err := cliui.Step(c.out, "Loading "+file, func() error {
			var err error
			jobs, err = ingest.LoadFile(file, collection)
			return err
		})
		if err != nil {
			c.logger.Warn("skipping article file", "path", file, "error", err)
			continue
		}

		for _, job := range jobs {
			if err := pool.Submit(ctx, job); err != nil {
				return fmt.Errorf("queueing %s: %w", job.Source, err)
			}
		}
	}
	return nil
}

func (c *ingestCommander) watchDir(ctx context.Context, pool *ingest.Pool, collection string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(c.out, "\n  %s %s %s\n\n",
		cliui.HeaderStyle.Render("Watching"),
		cliui.KeyStyle.Render(c.watch),
		cliui.DimStyle.Render("(ctrl-c to stop)"),
	)
	return pool.Watch(ctx, c.watch, collection)
}

type tally struct {
	stored  int
	failed  int
	skipped int
}

func (t *tally) add(r ingest.Result, log *slog.Logger) {
	if errors.Is(r.Err, context.Canceled) {
		t.skipped++
		return
	}
	if r.Err != nil {
		t.failed++
		log.Error("article not stored", "source", r.Job.Source, "url", r.Job.Article.URL, "error", r.Err)
		return
	}
	t.stored++
	log.Debug("article stored", "id", r.Record.ID, "url", r.Record.URL())
}

func (t *tally) failErr() error {
	if t.failed == 0 {
		return nil
	}
	return fmt.Errorf("%d article(s) failed to store", t.failed)
}
