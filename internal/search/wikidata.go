package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// wikidataAPIBase is the Wikidata entity search endpoint; a var for tests.
var wikidataAPIBase = "https://www.wikidata.org/w/api.php"

// WikidataBackend queries Wikidata entity search. It is the stricter
// secondary provider: entity labels and aliases are curated, so a miss here
// is stronger evidence a topic is fabricated.
type WikidataBackend struct {
	Client  *http.Client
	limiter *rate.Limiter
}

// NewWikidataBackend creates the secondary validation backend.
func NewWikidataBackend(client *http.Client) *WikidataBackend {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WikidataBackend{
		Client:  client,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
	}
}

// Name returns the backend identifier.
func (b *WikidataBackend) Name() string { return "wikidata" }

// Lookup returns entity labels and aliases matching the query.
func (b *WikidataBackend) Lookup(ctx context.Context, query string) ([]string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"action":   {"wbsearchentities"},
		"search":   {query},
		"language": {"en"},
		"limit":    {"10"},
		"format":   {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikidataAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikidata API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikidata API returned HTTP %d", resp.StatusCode)
	}

	var parsed struct {
		Search []struct {
			Label   string   `json:"label"`
			Aliases []string `json:"aliases"`
		} `json:"search"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing wikidata response: %w", err)
	}

	var labels []string
	for _, hit := range parsed.Search {
		labels = append(labels, hit.Label)
		labels = append(labels, hit.Aliases...)
	}
	return labels, nil
}

// Search returns entity labels as results. Wikidata has no snippets; the
// label doubles as the snippet so callers can treat backends uniformly.
func (b *WikidataBackend) Search(ctx context.Context, query string) ([]Result, error) {
	labels, err := b.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(labels))
	for _, l := range labels {
		results = append(results, Result{Title: l, Snippet: l})
	}
	return results, nil
}
