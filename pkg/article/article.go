// Package article defines the processed news article consumed by the index and
// the document record derived from it.
package article

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Article is a news article as handed over by the extraction and enrichment
// collaborators. It is immutable once it reaches the index.
type Article struct {
	// URL is the unique external identifier of the article. Required.
	URL string `json:"url"`

	// Title is the article headline.
	Title string `json:"title,omitempty"`

	// Text is the extracted body. An empty Text means extraction failed upstream.
	Text string `json:"text,omitempty"`

	// Summary is produced by the enrichment step.
	Summary string `json:"summary,omitempty"`

	// Topics are short topic strings produced by the enrichment step, in order.
	Topics []string `json:"topics,omitempty"`

	// PublishDate is the publication date, if the extractor found one.
	PublishDate *Date `json:"publish_date,omitempty"`

	// Authors is carried for collaborators but never persisted by the index.
	Authors []string `json:"authors,omitempty"`
}

// HasText reports whether extraction produced any article body.
func (a Article) HasText() bool {
	return strings.TrimSpace(a.Text) != ""
}

// PublishDateString renders PublishDate the way it is stored in metadata.
func (a Article) PublishDateString() string {
	if a.PublishDate == nil || a.PublishDate.IsZero() {
		return ""
	}
	return a.PublishDate.String()
}

// Decode reads articles from r. The payload may be a single JSON object or a
// JSON array of objects.
func Decode(r io.Reader) ([]Article, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading articles: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var articles []Article
		if err := json.Unmarshal(trimmed, &articles); err != nil {
			return nil, fmt.Errorf("decoding article list: %w", err)
		}
		return articles, nil
	}

	var a Article
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return nil, fmt.Errorf("decoding article: %w", err)
	}
	return []Article{a}, nil
}
