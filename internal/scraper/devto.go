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

// DevToScraper fetches the top weekly articles from Dev.to, then pulls the
// body text of each article from its detail page.
type DevToScraper struct {
	client  *http.Client
	baseURL string
	log     *logger.Logger

	// Pause bounds between detail-page fetches. Vars so tests can shrink them.
	throttleMin time.Duration
	throttleMax time.Duration
}

func NewDevToScraper(log *logger.Logger) *DevToScraper {
	return &DevToScraper{
		client:      newHTTPClient(15 * time.Second),
		baseURL:     "https://dev.to",
		log:         log.With("scraper", "devto"),
		throttleMin: throttleMin,
		throttleMax: throttleMax,
	}
}

func (s *DevToScraper) Name() string { return "Dev.to" }

func (s *DevToScraper) Scrape(ctx context.Context, limit int) ([]Item, error) {
	doc, err := fetchDocument(ctx, s.client, s.baseURL+"/top/week")
	if err != nil {
		return nil, fmt.Errorf("devto: %w", err)
	}

	cards := firstMatch(doc.Selection, "div.crayons-story", "article.crayons-story", "article")
	if cards == nil {
		s.log.Warn("no article cards matched; the site markup may have changed")
		return nil, nil
	}

	var items []Item
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		item, ok := s.parseCard(card)
		if ok {
			items = append(items, item)
		}
		return len(items) < limit
	})

	// Enrich each listed article with its body text. A failed detail fetch
	// keeps the item with placeholder content rather than dropping it.
	for i := range items {
		if i > 0 {
			sleepJitter(s.throttleMin, s.throttleMax)
		}
		s.fetchArticleBody(ctx, &items[i])
	}

	s.log.Info("scraped articles", "count", len(items))
	return items, nil
}

func (s *DevToScraper) parseCard(card *goquery.Selection) (Item, bool) {
	title := firstMatch(card, "h2.crayons-story__title", "h2", "h3")
	if title == nil {
		return Item{}, false
	}

	link := firstMatch(card, "h2.crayons-story__title a", "h2 a", `a[id^="article-link-"]`, "a")
	if link == nil {
		return Item{}, false
	}
	href, ok := link.First().Attr("href")
	if !ok || href == "" {
		return Item{}, false
	}

	item := Item{
		Title: strings.TrimSpace(title.First().Text()),
		Link:  resolveLink(s.baseURL, href),
		Date:  time.Now().Format("2006-01-02"),
	}

	if dateEl := firstMatch(card, "time", ".crayons-story__meta time", ".created-at"); dateEl != nil {
		if dt, ok := dateEl.First().Attr("datetime"); ok && dt != "" {
			item.Date = strings.SplitN(dt, "T", 2)[0]
		}
	}

	item.Author = "Unknown"
	if authorEl := firstMatch(card, ".crayons-story__meta a", ".profile-preview-card__name"); authorEl != nil {
		item.Author = strings.TrimSpace(authorEl.First().Text())
	}

	card.Find(".crayons-tag").Each(func(_ int, tag *goquery.Selection) {
		if t := strings.TrimPrefix(strings.TrimSpace(tag.Text()), "#"); t != "" {
			item.Tags = append(item.Tags, t)
		}
	})

	return item, true
}

// fetchArticleBody fills Content and Summary from the article's detail page.
func (s *DevToScraper) fetchArticleBody(ctx context.Context, item *Item) {
	doc, err := fetchDocument(ctx, s.client, item.Link)
	if err != nil {
		s.log.Warn("could not fetch article body", "link", item.Link, "error", err)
		item.Content = "Could not fetch content"
		item.Summary = "Could not fetch content"
		return
	}

	// Read before extractContent strips the page header.
	if rt := doc.Find(".crayons-article__header__meta__readingtime").First(); rt.Length() > 0 {
		item.ReadingTime = strings.TrimSpace(rt.Text())
	}

	content, excerpt := extractContent(doc,
		"div.crayons-article__body",
		"article[data-article-id]",
		"div#article-body",
		"div.article-content",
		"article",
		"main",
	)
	item.Content = content
	item.Summary = excerpt
}
