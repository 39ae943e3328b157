// Package scraper collects raw tech content items from the configured
// upstream sources: Hacker News, Reddit, Dev.to, GitHub Trending and arXiv.
//
// Every scraper follows the same contract: a Scrape call returns at most
// limit items and an error only when the listing itself could not be
// retrieved. Item-level problems (a row missing its title anchor, a detail
// page that will not load) degrade to skipped items or items with empty
// content, never to a failed scrape.
package scraper

import (
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ryosukesatoh/tech-curator/internal/config"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// Item is the raw, source-specific record a scraper emits. Only Title and
// Link can be relied on; every other field is populated when the source
// exposes it.
type Item struct {
	Title        string
	Link         string
	CommentsLink string
	Score        string
	Author       string
	Date         string
	Subreddit    string
	Description  string
	Stars        string
	Language     string
	ReadingTime  string
	Tags         []string
	Content      string
	Summary      string
}

// Scraper fetches raw items from one upstream source.
type Scraper interface {
	// Name is the human-readable source name, stable per instance.
	Name() string
	// Scrape returns up to limit items. A nil error with an empty slice is
	// a valid outcome (nothing matched).
	Scrape(ctx context.Context, limit int) ([]Item, error)
}

// Browser User-Agent; several of the sources block obvious bots.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

const listingTimeout = 10 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// fetchDocument retrieves url and parses it into a goquery document. Non-2xx
// statuses are errors.
func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// StatusError reports an unexpected HTTP status from an upstream source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return "unexpected status " + http.StatusText(e.StatusCode) + " fetching " + e.URL
}

// firstMatch evaluates the candidate selectors in order and returns the
// first selection that matches at least one node. Sites redesign their
// markup; a cascade lets a scraper fall through to an older or looser
// selector instead of failing outright.
func firstMatch(s *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if m := s.Find(sel); m.Length() > 0 {
			return m
		}
	}
	return nil
}

// All builds the scrapers enabled by the configuration, in the order they
// are reported on.
func All(cfg *config.Config, log *logger.Logger) []Scraper {
	var scrapers []Scraper

	if config.SourceEnabled(cfg.Sources.HackerNews.Enabled) {
		scrapers = append(scrapers, NewHackerNewsScraper(log))
	}
	if config.SourceEnabled(cfg.Sources.Reddit.Enabled) {
		scrapers = append(scrapers, NewRedditScraper(
			cfg.Sources.Reddit.Subreddits,
			cfg.Sources.Reddit.ClientID,
			cfg.Sources.Reddit.ClientSecret,
			cfg.Sources.Reddit.UserAgent,
			log,
		))
	}
	if config.SourceEnabled(cfg.Sources.DevTo.Enabled) {
		scrapers = append(scrapers, NewDevToScraper(log))
	}
	if config.SourceEnabled(cfg.Sources.GitHubTrending.Enabled) {
		scrapers = append(scrapers, NewGitHubTrendingScraper(cfg.Sources.GitHubTrending.Language, log))
	}
	if config.SourceEnabled(cfg.Sources.Arxiv.Enabled) {
		scrapers = append(scrapers, NewArxivScraper(cfg.Sources.Arxiv.Categories, log))
	}

	return scrapers
}
