package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

const arxivAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: search_query=cs.AI</title>
  <entry>
    <id>http://arxiv.org/abs/2501.00001v1</id>
    <title>Attention Is Still All
      You Need</title>
    <summary>We revisit the transformer architecture
      and show it remains competitive.</summary>
    <published>2025-01-15T18:00:00Z</published>
    <link href="http://arxiv.org/abs/2501.00001v1" rel="alternate" type="text/html"/>
    <author><name>Jane Researcher</name></author>
    <author><name>Co Author</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2501.00002v1</id>
    <title>Sparse Mixture Models for Edge Devices</title>
    <summary>A compact mixture-of-experts variant.</summary>
    <published>2025-01-14T12:30:00Z</published>
    <author><name>Alex Builder</name></author>
  </entry>
</feed>`

func newArxivTestScraper(ts *httptest.Server, categories []string) *ArxivScraper {
	s := NewArxivScraper(categories, logger.Discard())
	s.client = ts.Client()
	s.baseURL = ts.URL
	return s
}

func TestArxivScrape(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(arxivAtom))
	}))
	defer ts.Close()

	s := newArxivTestScraper(ts, []string{"cs.LG", "cs.AI"})
	items, err := s.Scrape(context.Background(), 2)
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 papers, got %d", len(items))
	}
	if query != "search_query=cs.LG&start=0&max_results=2" {
		t.Errorf("Unexpected query string: %q", query)
	}

	first := items[0]
	if first.Title != "Attention Is Still All You Need" {
		t.Errorf("Expected whitespace-normalized title, got %q", first.Title)
	}
	if first.Link != "http://arxiv.org/abs/2501.00001v1" {
		t.Errorf("Unexpected link: %q", first.Link)
	}
	if first.Date != "2025-01-15" {
		t.Errorf("Unexpected date: %q", first.Date)
	}
	if first.Author != "Jane Researcher" {
		t.Errorf("Expected first author only, got %q", first.Author)
	}
	if first.Summary == "" {
		t.Error("Expected abstract to populate the summary")
	}

	// The second entry has no alternate link, so the entry ID stands in.
	if items[1].Link != "http://arxiv.org/abs/2501.00002v1" {
		t.Errorf("Expected GUID fallback link, got %q", items[1].Link)
	}
}

func TestArxivScrapeDefaultCategory(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(arxivAtom))
	}))
	defer ts.Close()

	s := newArxivTestScraper(ts, nil)
	if _, err := s.Scrape(context.Background(), 3); err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if query != "search_query=cs.AI&start=0&max_results=3" {
		t.Errorf("Expected default category query, got %q", query)
	}
}

func TestArxivScrapeBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	s := newArxivTestScraper(ts, []string{"cs.AI"})
	if _, err := s.ScrapeCategory(context.Background(), "cs.AI", 2); err == nil {
		t.Fatal("Expected error on non-200 response")
	}
}
