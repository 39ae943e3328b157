package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// GitHubTrendingScraper fetches trending repositories from github.com,
// optionally filtered to one programming language.
type GitHubTrendingScraper struct {
	client   *http.Client
	baseURL  string
	language string
	log      *logger.Logger
}

func NewGitHubTrendingScraper(language string, log *logger.Logger) *GitHubTrendingScraper {
	return &GitHubTrendingScraper{
		client:   newHTTPClient(listingTimeout),
		baseURL:  "https://github.com/trending",
		language: language,
		log:      log.With("scraper", "github"),
	}
}

func (s *GitHubTrendingScraper) Name() string { return "GitHub Trending" }

func (s *GitHubTrendingScraper) Scrape(ctx context.Context, limit int) ([]Item, error) {
	return s.scrape(ctx, s.language, limit)
}

// ScrapeLanguage fetches trending repositories for one language regardless
// of the configured filter.
func (s *GitHubTrendingScraper) ScrapeLanguage(ctx context.Context, language string, limit int) ([]Item, error) {
	return s.scrape(ctx, language, limit)
}

func (s *GitHubTrendingScraper) scrape(ctx context.Context, language string, limit int) ([]Item, error) {
	url := s.baseURL
	if language != "" {
		url += "?l=" + language
	}

	doc, err := fetchDocument(ctx, s.client, url)
	if err != nil {
		return nil, fmt.Errorf("github: %w", err)
	}

	boxes := firstMatch(doc.Selection, "article.Box-row", ".Box article", ".Box .Box-row")
	if boxes == nil {
		s.log.Warn("no repository rows matched; the site markup may have changed")
		return nil, nil
	}

	var items []Item
	boxes.EachWithBreak(func(_ int, box *goquery.Selection) bool {
		item, ok := s.parseRepo(box)
		if ok {
			items = append(items, item)
		}
		return len(items) < limit
	})

	s.log.Info("scraped repositories", "count", len(items), "language", language)
	return items, nil
}

func (s *GitHubTrendingScraper) parseRepo(box *goquery.Selection) (Item, bool) {
	link := firstMatch(box, "h2 a", "h1 a", `a[data-view-component="true"][href*="/"]`)
	if link == nil {
		return Item{}, false
	}
	anchor := link.First()

	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return Item{}, false
	}

	item := Item{
		// "owner /\n repo" rendered text; normalize to single-spaced.
		Title: collapseWhitespace(anchor.Text()),
		Link:  resolveLink("https://github.com", href),
	}

	item.Description = "No description"
	if desc := firstMatch(box, "p", ".color-fg-muted"); desc != nil {
		item.Description = strings.TrimSpace(desc.First().Text())
	}
	// The repository description stands in for a content excerpt.
	item.Summary = item.Description

	item.Stars = "0"
	if stars := firstMatch(box, `a[href*="stargazers"]`, `span[aria-label*="star"]`, `a[href*="star"]`); stars != nil {
		item.Stars = strings.TrimSpace(stars.First().Text())
	}

	if lang := firstMatch(box, `span[itemprop="programmingLanguage"]`, ".repo-language-color + span"); lang != nil {
		item.Language = strings.TrimSpace(lang.First().Text())
	}

	return item, true
}
