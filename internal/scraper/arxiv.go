package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// ArxivScraper fetches recent papers from the arXiv API, which serves Atom
// feeds.
type ArxivScraper struct {
	client     *http.Client
	baseURL    string
	categories []string
	log        *logger.Logger
}

func NewArxivScraper(categories []string, log *logger.Logger) *ArxivScraper {
	return &ArxivScraper{
		client:     newHTTPClient(listingTimeout),
		baseURL:    "http://export.arxiv.org/api/query",
		categories: categories,
		log:        log.With("scraper", "arxiv"),
	}
}

func (s *ArxivScraper) Name() string { return "arXiv Papers" }

// Scrape fetches recent papers in the primary configured category.
func (s *ArxivScraper) Scrape(ctx context.Context, limit int) ([]Item, error) {
	category := "cs.AI"
	if len(s.categories) > 0 {
		category = s.categories[0]
	}
	return s.ScrapeCategory(ctx, category, limit)
}

// ScrapeCategory fetches recent papers in one arXiv category, e.g. "cs.LG".
func (s *ArxivScraper) ScrapeCategory(ctx context.Context, category string, limit int) ([]Item, error) {
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d", s.baseURL, category, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: %w", &StatusError{URL: reqURL, StatusCode: resp.StatusCode})
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("arxiv: failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item := Item{
			Title:   collapseWhitespace(entry.Title),
			Summary: collapseWhitespace(entry.Description),
			Link:    strings.TrimSpace(entry.Link),
		}
		if item.Link == "" {
			item.Link = strings.TrimSpace(entry.GUID)
		}
		if entry.PublishedParsed != nil {
			item.Date = entry.PublishedParsed.Format("2006-01-02")
		} else if entry.Published != "" {
			item.Date = strings.SplitN(entry.Published, "T", 2)[0]
		}
		if len(entry.Authors) > 0 {
			item.Author = entry.Authors[0].Name
		}
		items = append(items, item)
	}

	s.log.Info("scraped papers", "count", len(items), "category", category)
	return items, nil
}
