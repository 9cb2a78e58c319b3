package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

const defaultBingEndpoint = "https://api.bing.microsoft.com/v7.0"

// bing queries the Bing Web Search API. A subscription key is required.
type bing struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func newBing(cfg Config, client *http.Client) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errf("bing", "subscription key is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultBingEndpoint
	}
	return &bing{endpoint: endpoint, apiKey: cfg.APIKey, client: client}, nil
}

func (p *bing) Name() string { return "bing" }

func (p *bing) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	if opts.Limit > 0 {
		q.Set("count", strconv.Itoa(opts.Limit))
	}
	if opts.Language != "" {
		q.Set("mkt", opts.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, errf(p.Name(), "build request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errf(p.Name(), "request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errf(p.Name(), "unexpected status %d", resp.StatusCode)
	}

	var body struct {
		WebPages struct {
			Value []struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errf(p.Name(), "decode response: %w", err)
	}

	out := make([]Result, 0, len(body.WebPages.Value))
	for _, r := range body.WebPages.Value {
		out = append(out, Result{Title: r.Name, URL: r.URL, Snippet: r.Snippet})
	}
	return out, nil
}
