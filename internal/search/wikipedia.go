package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"golang.org/x/time/rate"
)

// wikipediaAPIBase is the MediaWiki API endpoint. Declared as a var so tests
// can substitute an httptest server.
var wikipediaAPIBase = "https://en.wikipedia.org/w/api.php"

const searchUserAgent = "wikiplan/0.1 (topic universe discovery)"

var htmlTagRegex = regexp.MustCompile(`<[^>]+>`)

// WikipediaBackend queries the MediaWiki API.
type WikipediaBackend struct {
	Client  *http.Client
	limiter *rate.Limiter
}

// NewWikipediaBackend creates the primary validation backend, rate-limited
// to stay inside the API's politeness expectations.
func NewWikipediaBackend(client *http.Client) *WikipediaBackend {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WikipediaBackend{
		Client:  client,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
	}
}

// Name returns the backend identifier.
func (b *WikipediaBackend) Name() string { return "wikipedia" }

// Lookup returns article titles matching the query via the opensearch API.
func (b *WikipediaBackend) Lookup(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"action": {"opensearch"},
		"search": {query},
		"limit":  {"10"},
		"format": {"json"},
	}

	body, err := b.get(ctx, params)
	if err != nil {
		return nil, err
	}

	// opensearch responses are positional: [query, [titles], [descs], [urls]]
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing opensearch response: %w", err)
	}
	if len(raw) < 2 {
		return nil, nil
	}
	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil, fmt.Errorf("parsing opensearch titles: %w", err)
	}
	return titles, nil
}

// Search returns full-text search hits with snippets.
func (b *WikipediaBackend) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"10"},
		"format":   {"json"},
	}

	body, err := b.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	results := make([]Result, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		results = append(results, Result{
			Title:   hit.Title,
			Snippet: html.UnescapeString(htmlTagRegex.ReplaceAllString(hit.Snippet, "")),
		})
	}
	return results, nil
}

func (b *WikipediaBackend) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia API returned HTTP %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading wikipedia response: %w", err)
	}
	return buf, nil
}
