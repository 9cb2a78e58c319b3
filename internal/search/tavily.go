package search

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

const defaultTavilyEndpoint = "https://api.tavily.com"

// tavily queries the Tavily search API. A bearer API key is required.
type tavily struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func newTavily(cfg Config, client *http.Client) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errf("tavily", "api key is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultTavilyEndpoint
	}
	return &tavily{endpoint: endpoint, apiKey: cfg.APIKey, client: client}, nil
}

func (p *tavily) Name() string { return "tavily" }

func (p *tavily) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	payload := map[string]any{
		"query":               query,
		"include_answer":      false,
		"include_images":      false,
		"include_raw_content": false,
	}
	if opts.Limit > 0 {
		payload["max_results"] = opts.Limit
	}
	if opts.TimeRange != "" {
		payload["time_range"] = opts.TimeRange
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, errf(p.Name(), "encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/search", bytes.NewReader(b))
	if err != nil {
		return nil, errf(p.Name(), "build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

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
		out = append(out, Result{Title: r.Title, URL: r.URL, Snippet: r.Content, Content: r.Content})
	}
	return out, nil
}
