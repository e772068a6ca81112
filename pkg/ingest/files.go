package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/papercomputeco/newsvec/pkg/article"
)

// IsArticleFile reports whether path looks like an article JSON file.
func IsArticleFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// ExpandPaths returns the article files named by paths. Directories are
// expanded to their *.json entries (not recursively) in name order.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}

		var found []string
		for _, e := range entries {
			if e.IsDir() || !IsArticleFile(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(p, e.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// LoadFile decodes the articles in path into jobs for collection.
func LoadFile(path, collection string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	articles, err := article.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	jobs := make([]Job, 0, len(articles))
	for _, a := range articles {
		jobs = append(jobs, Job{Source: path, Article: a, Collection: collection})
	}
	return jobs, nil
}
