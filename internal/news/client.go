// Package news fetches syndicated headlines and weather from upstream
// JSON providers. Upstream failures degrade to empty results at the
// handler layer; nothing here is load-bearing for the rest of the site.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sabuzz/internal/cache"
	"sabuzz/internal/config"
	"sabuzz/internal/observability"
)

const fetchTimeout = 5 * time.Second

// Article is one syndicated headline.
type Article struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	SourceID    string   `json:"source_id"`
	PubDate     string   `json:"pub_date"`
	Categories  []string `json:"categories,omitempty"`
}

// Client talks to the newsdata.io latest-news API.
type Client struct {
	baseURL string
	apiKey  string
	country string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.NewsAPIBase,
		apiKey:  cfg.NewsAPIKey,
		country: cfg.NewsCountry,
		http:    &http.Client{Timeout: fetchTimeout},
	}
}

// upstream response shape
type newsResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Results      []struct {
		Title       string   `json:"title"`
		Link        string   `json:"link"`
		Description string   `json:"description"`
		ImageURL    string   `json:"image_url"`
		SourceID    string   `json:"source_id"`
		PubDate     string   `json:"pubDate"`
		Category    []string `json:"category"`
	} `json:"results"`
}

// Headlines returns the latest country headlines.
func (c *Client) Headlines(ctx context.Context) ([]Article, error) {
	return c.cachedFetch(ctx, cache.NewsKey(c.country, "", ""), url.Values{})
}

// Category returns the latest headlines for one category.
func (c *Client) Category(ctx context.Context, category string) ([]Article, error) {
	params := url.Values{}
	params.Set("category", category)
	return c.cachedFetch(ctx, cache.NewsKey(c.country, category, ""), params)
}

// Search returns headlines matching a free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	return c.cachedFetch(ctx, cache.NewsKey(c.country, "", query), params)
}

func (c *Client) cachedFetch(ctx context.Context, key string, params url.Values) ([]Article, error) {
	var articles []Article
	err := cache.Aside(ctx, key, &articles, cache.NewsTTL, func() error {
		fetched, fetchErr := c.fetch(ctx, params)
		if fetchErr != nil {
			return fetchErr
		}
		articles = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]Article, error) {
	params.Set("apikey", c.apiKey)
	if c.country != "" {
		params.Set("country", c.country)
	}
	endpoint := fmt.Sprintf("%s/news?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.RecordExternalFetch("newsdata", "error")
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		observability.RecordExternalFetch("newsdata", "error")
		return nil, fmt.Errorf("fetch news: upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		observability.RecordExternalFetch("newsdata", "error")
		return nil, fmt.Errorf("read news response: %w", err)
	}

	var parsed newsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observability.RecordExternalFetch("newsdata", "error")
		return nil, fmt.Errorf("decode news response: %w", err)
	}
	if parsed.Status != "success" {
		observability.RecordExternalFetch("newsdata", "error")
		return nil, fmt.Errorf("fetch news: upstream status %q", parsed.Status)
	}

	observability.RecordExternalFetch("newsdata", "success")
	articles := make([]Article, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		articles = append(articles, Article{
			Title:       r.Title,
			Link:        r.Link,
			Description: r.Description,
			ImageURL:    r.ImageURL,
			SourceID:    r.SourceID,
			PubDate:     r.PubDate,
			Categories:  r.Category,
		})
	}
	return articles, nil
}
