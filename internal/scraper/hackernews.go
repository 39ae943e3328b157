package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// HackerNewsScraper pulls stories off the Hacker News front page.
type HackerNewsScraper struct {
	client  *http.Client
	baseURL string
	log     *logger.Logger
}

func NewHackerNewsScraper(log *logger.Logger) *HackerNewsScraper {
	return &HackerNewsScraper{
		client:  newHTTPClient(listingTimeout),
		baseURL: "https://news.ycombinator.com/",
		log:     log.With("scraper", "hackernews"),
	}
}

func (s *HackerNewsScraper) Name() string { return "Hacker News" }

// Scrape fetches top stories from the front page.
func (s *HackerNewsScraper) Scrape(ctx context.Context, limit int) ([]Item, error) {
	return s.scrapePage(ctx, s.baseURL, limit)
}

// Newest fetches the most recently submitted stories instead of the front
// page ranking.
func (s *HackerNewsScraper) Newest(ctx context.Context, limit int) ([]Item, error) {
	return s.scrapePage(ctx, s.baseURL+"newest", limit)
}

func (s *HackerNewsScraper) scrapePage(ctx context.Context, url string, limit int) ([]Item, error) {
	doc, err := fetchDocument(ctx, s.client, url)
	if err != nil {
		return nil, fmt.Errorf("hackernews: %w", err)
	}

	var items []Item
	doc.Find("tr.athing").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		title := firstMatch(row, "span.titleline > a", "td.title a")
		if title == nil {
			return true
		}
		anchor := title.First()

		item := Item{Title: strings.TrimSpace(anchor.Text())}

		if href, ok := anchor.Attr("href"); ok {
			item.Link = resolveLink(s.baseURL, href)
		}
		if id, ok := row.Attr("id"); ok {
			item.CommentsLink = fmt.Sprintf("%sitem?id=%s", s.baseURL, id)
		}

		// Score, author and timestamp live in the subtext row that follows
		// each story row.
		s.extractMetadata(&item, row.Next())

		items = append(items, item)
		return len(items) < limit
	})

	s.log.Info("scraped stories", "count", len(items), "url", url)
	return items, nil
}

// extractMetadata fills score, author and date from a story's subtext row.
// Missing pieces leave their defaults in place.
func (s *HackerNewsScraper) extractMetadata(item *Item, subtextRow *goquery.Selection) {
	item.Score = "Unknown"

	if subtextRow == nil || subtextRow.Length() == 0 {
		return
	}
	subtext := subtextRow.Find("td.subtext")
	if subtext.Length() == 0 {
		return
	}

	if score := subtext.Find(".score").First(); score.Length() > 0 {
		item.Score = strings.TrimSpace(score.Text())
	}
	if author := subtext.Find(".hnuser").First(); author.Length() > 0 {
		item.Author = strings.TrimSpace(author.Text())
	}

	// The age element's title attribute carries the exact timestamp,
	// sometimes followed by a unix epoch.
	if age := subtext.Find(".age").First(); age.Length() > 0 {
		if stamp, ok := age.Attr("title"); ok {
			item.Date = parseHNTimestamp(stamp)
		}
	}
}

func parseHNTimestamp(stamp string) string {
	fields := strings.Fields(stamp)
	if len(fields) > 0 {
		if t, err := time.Parse("2006-01-02T15:04:05", fields[0]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return time.Now().Format("2006-01-02")
}
