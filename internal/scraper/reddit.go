package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ryosukesatoh/tech-curator/internal/logger"
)

// RedditScraper pulls new posts from the configured subreddits through the
// Reddit OAuth2 API using the client-credentials flow.
type RedditScraper struct {
	client       *http.Client
	subreddits   []string
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     string
	apiURL       string
	log          *logger.Logger
}

func NewRedditScraper(subreddits []string, clientID, clientSecret, userAgent string, log *logger.Logger) *RedditScraper {
	return &RedditScraper{
		client:       newHTTPClient(listingTimeout),
		subreddits:   subreddits,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     "https://www.reddit.com/api/v1/access_token",
		apiURL:       "https://oauth.reddit.com",
		log:          log.With("scraper", "reddit"),
	}
}

func (s *RedditScraper) Name() string { return "Reddit" }

// Scrape fetches up to limit new posts per subreddit. Missing credentials
// degrade to an empty result; a per-subreddit failure skips that subreddit.
func (s *RedditScraper) Scrape(ctx context.Context, limit int) ([]Item, error) {
	if s.clientID == "" || s.clientSecret == "" {
		s.log.Warn("reddit API credentials are not configured; skipping source")
		return nil, nil
	}

	token, err := s.fetchToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit: %w", err)
	}

	var items []Item
	for _, sub := range s.subreddits {
		posts, err := s.fetchSubreddit(ctx, token, sub, limit)
		if err != nil {
			s.log.Error("failed to scrape subreddit", "subreddit", sub, "error", err)
			continue
		}
		items = append(items, posts...)
	}

	s.log.Info("scraped posts", "count", len(items), "subreddits", len(s.subreddits))
	return items, nil
}

// FilterByKeyword returns the items whose title contains keyword,
// case-insensitively.
func FilterByKeyword(items []Item, keyword string) []Item {
	keyword = strings.ToLower(keyword)
	var out []Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), keyword) {
			out = append(out, it)
		}
	}
	return out
}

type redditToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *RedditScraper) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: s.tokenURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	var tok redditToken
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	return tok.AccessToken, nil
}

// Reddit listing response, trimmed to the fields the curator uses.
type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

func (s *RedditScraper) fetchSubreddit(ctx context.Context, token, subreddit string, limit int) ([]Item, error) {
	reqURL := fmt.Sprintf("%s/r/%s/new?limit=%d", s.apiURL, subreddit, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing response: %w", err)
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}

	items := make([]Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		items = append(items, Item{
			Title:        post.Title,
			Link:         post.URL,
			CommentsLink: "https://www.reddit.com" + post.Permalink,
			Author:       post.Author,
			Score:        strconv.Itoa(post.Score),
			Date:         time.Unix(int64(post.CreatedUTC), 0).Format("2006-01-02"),
			Subreddit:    subreddit,
		})
	}

	return items, nil
}
