package cliui

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/index"
	"github.com/papercomputeco/newsvec/pkg/utils"
)

// previewLen is how much of a document a non-full listing shows.
const previewLen = 240

// SearchResultsMarkdown formats ranked search results for RenderMarkdown.
// Without full only a one-line preview of each document is included.
func SearchResultsMarkdown(query string, results []index.Result, full bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for %q\n\n", query)

	if len(results) == 0 {
		b.WriteString("_No matching articles._\n")
		return b.String()
	}

	for i, r := range results {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, orUntitled(r.Title))
		fmt.Fprintf(&b, "- **Score:** %.4f (distance %.4f)\n", r.RelevanceScore, r.Distance)
		writeMeta(&b, r.URL, r.PublishDate, r.Topics)
		b.WriteString("\n")
		writeDocument(&b, r.Document, full)
	}

	return b.String()
}

// RecordsMarkdown formats every stored record of a collection.
func RecordsMarkdown(collection string, records []article.Record, full bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%d articles)\n\n", collection, len(records))

	for _, r := range records {
		fmt.Fprintf(&b, "## %s\n\n", orUntitled(r.Title()))
		fmt.Fprintf(&b, "- **ID:** `%s`\n", r.ID)
		writeMeta(&b, r.URL(), r.PublishDate(), r.Topics())
		b.WriteString("\n")
		writeDocument(&b, r.Document, full)
	}

	return b.String()
}

func writeMeta(b *strings.Builder, url, published string, topics []string) {
	if url != "" {
		fmt.Fprintf(b, "- **URL:** %s\n", url)
	}
	if published != "" {
		fmt.Fprintf(b, "- **Published:** %s\n", published)
	}
	if len(topics) > 0 {
		fmt.Fprintf(b, "- **Topics:** %s\n", strings.Join(topics, ", "))
	}
}

func writeDocument(b *strings.Builder, doc string, full bool) {
	if doc == "" {
		return
	}
	if full {
		for _, line := range strings.Split(doc, "\n") {
			fmt.Fprintf(b, "> %s\n", line)
		}
	} else {
		fmt.Fprintf(b, "> %s\n", utils.Truncate(utils.OneLine(doc), previewLen))
	}
	b.WriteString("\n")
}

func orUntitled(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}
