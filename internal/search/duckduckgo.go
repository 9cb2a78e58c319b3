package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultDuckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// duckduckgo scrapes the HTML results endpoint; DuckDuckGo has no public JSON
// search API. Result links are indirected through a redirect URL whose "uddg"
// parameter carries the destination.
type duckduckgo struct {
	endpoint string
	client   *http.Client
}

func newDuckDuckGo(cfg Config, client *http.Client) (Provider, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultDuckDuckGoEndpoint
	}
	return &duckduckgo{endpoint: endpoint, client: client}, nil
}

func (p *duckduckgo) Name() string { return "duckduckgo" }

func (p *duckduckgo) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	if opts.Language != "" {
		q.Set("kl", opts.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errf(p.Name(), "build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; websearch-mcp/1.0)")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errf(p.Name(), "request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errf(p.Name(), "unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errf(p.Name(), "parse response: %w", err)
	}

	var out []Result
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find(".result__a")
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolveRedirect(href),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
		})
		return opts.Limit <= 0 || len(out) < opts.Limit
	})
	return out, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<dest> indirection. Unparseable
// hrefs pass through untouched.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if dest := u.Query().Get("uddg"); dest != "" {
		return dest
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
