package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

const githubTrending = `<html><body><main>
<article class="Box-row">
  <h2><a href="/acme/fastparse"> acme /
        fastparse </a></h2>
  <p>A blazing fast parser combinator library.</p>
  <span itemprop="programmingLanguage">Rust</span>
  <a href="/acme/fastparse/stargazers">12,345</a>
</article>
<article class="Box-row">
  <h2><a href="/zorg/quietrepo"> zorg / quietrepo </a></h2>
</article>
</main></body></html>`

func newGitHubTestScraper(ts *httptest.Server, language string) *GitHubTrendingScraper {
	s := NewGitHubTrendingScraper(language, logger.Discard())
	s.client = ts.Client()
	s.baseURL = ts.URL + "/trending"
	return s
}

func TestGitHubTrendingScrape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(githubTrending))
	}))
	defer ts.Close()

	s := newGitHubTestScraper(ts, "")
	items, err := s.Scrape(context.Background(), 10)
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "acme / fastparse" {
		t.Errorf("Expected whitespace-normalized title, got %q", first.Title)
	}
	if first.Link != "https://github.com/acme/fastparse" {
		t.Errorf("Unexpected link: %q", first.Link)
	}
	if first.Description != "A blazing fast parser combinator library." {
		t.Errorf("Unexpected description: %q", first.Description)
	}
	if first.Summary != first.Description {
		t.Errorf("Expected description reused as excerpt, got %q", first.Summary)
	}
	if first.Stars != "12,345" {
		t.Errorf("Unexpected stars: %q", first.Stars)
	}
	if first.Language != "Rust" {
		t.Errorf("Unexpected language: %q", first.Language)
	}

	second := items[1]
	if second.Description != "No description" {
		t.Errorf("Expected description default, got %q", second.Description)
	}
	if second.Stars != "0" {
		t.Errorf("Expected stars default, got %q", second.Stars)
	}
}

func TestGitHubTrendingLanguageFilter(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(githubTrending))
	}))
	defer ts.Close()

	s := newGitHubTestScraper(ts, "go")
	if _, err := s.Scrape(context.Background(), 5); err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if query != "l=go" {
		t.Errorf("Expected language query parameter, got %q", query)
	}

	if _, err := s.ScrapeLanguage(context.Background(), "zig", 5); err != nil {
		t.Fatalf("ScrapeLanguage returned error: %v", err)
	}
	if query != "l=zig" {
		t.Errorf("Expected override language, got %q", query)
	}
}

func TestGitHubTrendingNoRows(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div>redesigned page</div></body></html>`))
	}))
	defer ts.Close()

	s := newGitHubTestScraper(ts, "")
	items, err := s.Scrape(context.Background(), 5)
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("Expected empty result when no selector matches, got %d items", len(items))
	}
}
