package article

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// TopicSeparator joins topics into the single metadata string. Topics that
// contain the separator themselves do not survive a join/split round trip.
const TopicSeparator = ", "

// Metadata keys stored alongside every record. Values are always strings.
const (
	MetaTitle       = "title"
	MetaURL         = "url"
	MetaPublishDate = "publish_date"
	MetaTopics      = "topics"
)

// Record is the persisted unit: a stable id, the embeddable text and flat
// string metadata.
type Record struct {
	ID       string            `json:"id"`
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
}

// Title returns the stored title.
func (r Record) Title() string { return r.Metadata[MetaTitle] }

// URL returns the stored url.
func (r Record) URL() string { return r.Metadata[MetaURL] }

// PublishDate returns the stored publish date string.
func (r Record) PublishDate() string { return r.Metadata[MetaPublishDate] }

// Topics re-splits the stored topic string.
func (r Record) Topics() []string { return SplitTopics(r.Metadata[MetaTopics]) }

// ID derives the record id from an article url: the hex MD5 digest of the url.
// It depends on nothing else, which is what makes re-storing an article an
// overwrite rather than a duplicate.
func ID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// BuildRecord turns an article into its id, embeddable text and metadata.
// Missing fields degrade to empty strings; it never fails.
func BuildRecord(a Article) Record {
	topics := JoinTopics(a.Topics)

	return Record{
		ID:       ID(a.URL),
		Document: Content(a.Title, a.Summary, topics),
		Metadata: map[string]string{
			MetaTitle:       a.Title,
			MetaURL:         a.URL,
			MetaPublishDate: a.PublishDateString(),
			MetaTopics:      topics,
		},
	}
}

// Content formats the text block that gets embedded.
func Content(title, summary, topics string) string {
	return fmt.Sprintf("Title: %s\n\nSummary: %s\n\nTopics: %s", title, summary, topics)
}

// JoinTopics flattens topics into one metadata string.
func JoinTopics(topics []string) string {
	return strings.Join(topics, TopicSeparator)
}

// SplitTopics is the inverse of JoinTopics. An empty string yields no topics.
func SplitTopics(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, TopicSeparator)
}
