package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const defaultSearXNGEndpoint = "http://localhost:8080"

// searxng queries a self-hosted SearXNG instance through its JSON API.
type searxng struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func newSearXNG(cfg Config, client *http.Client) (Provider, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultSearXNGEndpoint
	}
	return &searxng{endpoint: strings.TrimRight(endpoint, "/"), apiKey: cfg.APIKey, client: client}, nil
}

func (p *searxng) Name() string { return "searxng" }

func (p *searxng) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	if opts.Language != "" {
		q.Set("language", opts.Language)
	}
	if opts.TimeRange != "" {
		q.Set("time_range", opts.TimeRange)
	}
	if len(opts.Categories) > 0 {
		q.Set("categories", strings.Join(opts.Categories, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errf(p.Name(), "build request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errf(p.Name(), "request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errf(p.Name(), "unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errf(p.Name(), "decode response: %w", err)
	}

	out := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, Result{Title: r.Title, URL: r.URL, Snippet: r.Content})
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}
