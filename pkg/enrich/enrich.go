// Package enrich generates summaries and topic tags for extracted articles
// with a chat model.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/utils"
)

// DefaultMaxTextSize caps how much article text is sent to the model.
const DefaultMaxTextSize = 8000

const (
	noTextSummary = "Unable to generate summary: No article text available."
	noTextTopics  = "Unable to extract topics: No article text available."
)

const summaryPrompt = `You are an expert news summarizer. Create a concise summary of the following news article.
The summary should capture the main points and key information.
Keep the summary to about 3-5 sentences.

TITLE: %s

ARTICLE: %s

SUMMARY:`

const topicsPrompt = `Based on the following news article, identify the main topics or themes.
Return a comma-separated list of 5-8 key topics.
Topics should be individual terms or short phrases.

TITLE: %s

ARTICLE: %s

TOPICS:`

// Enricher adds a summary and topics to an article.
type Enricher interface {
	// Enrich returns a copy of a with Summary and Topics filled in. It never
	// fails: problems are reported inside the generated fields.
	Enrich(ctx context.Context, a article.Article) article.Article
}

// Config holds configuration for the LLM enricher.
type Config struct {
	// Call sends prompts to the model. Required.
	Call LLMCallFunc

	// MaxTextSize defaults to DefaultMaxTextSize.
	MaxTextSize int

	Logger *slog.Logger
}

// LLMEnricher implements Enricher with two prompts per article.
type LLMEnricher struct {
	call        LLMCallFunc
	maxTextSize int
	logger      *slog.Logger
}

// New creates an LLM-backed enricher.
func New(c Config) *LLMEnricher {
	size := c.MaxTextSize
	if size <= 0 {
		size = DefaultMaxTextSize
	}
	return &LLMEnricher{
		call:        c.Call,
		maxTextSize: size,
		logger:      c.Logger,
	}
}

// Enrich fills in Summary and Topics.
func (e *LLMEnricher) Enrich(ctx context.Context, a article.Article) article.Article {
	out := a
	out.Summary = e.Summary(ctx, a)
	out.Topics = e.Topics(ctx, a)
	return out
}

// Summary asks the model for a 3-5 sentence summary.
func (e *LLMEnricher) Summary(ctx context.Context, a article.Article) string {
	if !a.HasText() {
		return noTextSummary
	}

	reply, err := e.call(ctx, fmt.Sprintf(summaryPrompt, a.Title, utils.Clip(a.Text, e.maxTextSize)))
	if err != nil {
		e.logger.Error("failed to generate summary", "url", a.URL, "error", err)
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	return strings.TrimSpace(reply)
}

// Topics asks the model for 5-8 comma-separated topics.
func (e *LLMEnricher) Topics(ctx context.Context, a article.Article) []string {
	if !a.HasText() {
		return []string{noTextTopics}
	}

	reply, err := e.call(ctx, fmt.Sprintf(topicsPrompt, a.Title, utils.Clip(a.Text, e.maxTextSize)))
	if err != nil {
		e.logger.Error("failed to extract topics", "url", a.URL, "error", err)
		return []string{fmt.Sprintf("Error extracting topics: %v", err)}
	}
	return ParseTopics(reply)
}

// ParseTopics splits a comma-separated model reply into trimmed, non-empty
// topics.
func ParseTopics(reply string) []string {
	topics := make([]string, 0)
	for _, part := range strings.Split(strings.TrimSpace(reply), ",") {
		if t := strings.TrimSpace(part); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
