package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch submits the articles of every *.json file created or written in dir
// until ctx is done. Files that fail to decode are logged and skipped; a
// partially written file is picked up again on its next write.
func (p *Pool) Watch(ctx context.Context, dir, collection string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating article watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching article dir: %w", err)
	}

	p.logger.Info("watching for articles", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !IsArticleFile(event.Name) {
				continue
			}
			p.ingestFile(ctx, filepath.Clean(event.Name), collection)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("article watcher error: %w", err)
		}
	}
}

func (p *Pool) ingestFile(ctx context.Context, path, collection string) {
	jobs, err := LoadFile(path, collection)
	if err != nil {
		p.logger.Warn("skipping article file", "path", path, "error", err)
		return
	}

	for _, job := range jobs {
		if err := p.Submit(ctx, job); err != nil {
			p.logger.Warn("article not queued", "path", path, "url", job.Article.URL, "error", err)
			return
		}
	}
}
