// Package article defines the canonical record shared by all sources and
// the batch-level transforms over it.
package article

import (
	"time"

	"github.com/ryosukesatoh/tech-curator/internal/scraper"
)

// Article is the standardized record flowing through the pipeline.
type Article struct {
	Title   string
	Link    string
	Source  string
	Date    string // ISO date YYYY-MM-DD
	Content string
	Summary string // pre-summarization excerpt, not the generated summary
	// Original retains the unmodified raw item for traceability.
	Original scraper.Item
}

// Entry is the terminal summarized record handed to the digest sinks.
type Entry struct {
	Title   string
	Summary string
	Link    string
	Source  string
	Date    string
}

// Standardize maps a raw scraped item into the canonical shape. It is pure
// and total: missing fields get defaults, nothing fails.
func Standardize(item scraper.Item, source string) Article {
	a := Article{
		Title:    item.Title,
		Link:     item.Link,
		Source:   source,
		Date:     item.Date,
		Content:  item.Content,
		Summary:  item.Summary,
		Original: item,
	}
	if a.Title == "" {
		a.Title = "No Title"
	}
	if a.Date == "" {
		a.Date = time.Now().Format("2006-01-02")
	}
	return a
}
