// Package ingest provides an asynchronous worker pool that enriches and stores
// articles, plus helpers for loading article files and watching a directory
// for new ones.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/enrich"
	"github.com/papercomputeco/newsvec/pkg/logger"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("ingest pool closed")

// Storer persists an article into a collection. index.Service satisfies it.
type Storer interface {
	Store(ctx context.Context, a article.Article, collection string) (article.Record, error)
}

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	// Source names where the article came from, usually a file path.
	Source string

	Article    article.Article
	Collection string

	// ctx is the context the job was submitted with.
	ctx context.Context
}

// Result is the outcome of one Job.
type Result struct {
	Job    Job
	Record article.Record
	Err    error
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Storer persists articles. Required.
	Storer Storer

	// Enricher fills in a summary and topics for articles that have none.
	// Optional.
	Enricher enrich.Enricher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	Logger *slog.Logger

	// Context bounds jobs added with Enqueue. Jobs added with Submit use the
	// context passed to Submit. Defaults to context.Background().
	Context context.Context
}

// Pool processes ingest jobs asynchronously. Outcomes are delivered on
// Results, which must be drained by the caller.
type Pool struct {
	config  *Config
	queue   chan Job
	results chan Result
	wg      sync.WaitGroup
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Storer == nil {
		return nil, errors.New("ingest pool requires a storer")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	if c.Context == nil {
		c.Context = context.Background()
	}

	wp := &Pool{
		config:  c,
		queue:   make(chan Job, c.QueueSize),
		results: make(chan Result, c.QueueSize),
		logger:  c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job without blocking.
// Returns true if enqueued, false if the queue is full or closed, resulting in
// the job being dropped.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}

	job.ctx = p.config.Context
	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "source", job.Source, "url", job.Article.URL)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", "source", job.Source, "url", job.Article.URL)
		return false
	}
}

// Submit submits a job, waiting for queue capacity until ctx is done. The
// job is enriched and stored under ctx: once ctx is done, a job still in the
// queue is reported with ctx's error without being processed.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	job.ctx = ctx
	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "source", job.Source, "url", job.Article.URL)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns the channel job outcomes are delivered on. It is closed
// once Close has drained every worker.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close signals workers to stop and waits for in-flight jobs to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.results)
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.results <- p.processJob(job)
	}

	p.logger.Debug("ingest worker stopped", "worker_id", id)
}

// processJob enriches the article when it has no summary and stores it.
func (p *Pool) processJob(job Job) Result {
	ctx := job.ctx
	if ctx == nil {
		ctx = p.config.Context
	}
	job.ctx = nil

	if err := ctx.Err(); err != nil {
		p.logger.Debug("article skipped", "source", job.Source, "url", job.Article.URL, "error", err)
		return Result{Job: job, Err: err}
	}

	a := job.Article

	if p.config.Enricher != nil && a.Summary == "" {
		p.logger.Debug("enriching article", "url", a.URL)
		a = p.config.Enricher.Enrich(ctx, a)
	}

	rec, err := p.config.Storer.Store(ctx, a, job.Collection)
	if err != nil {
		p.logger.Error("article ingest failed", "source", job.Source, "url", a.URL, "error", err)
		return Result{Job: job, Err: err}
	}

	p.logger.Info("article stored", "id", rec.ID, "url", a.URL, "collection", job.Collection)
	return Result{Job: job, Record: rec}
}
