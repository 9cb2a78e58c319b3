package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/searchhub/websearch-mcp-go/internal/browser"
	"github.com/searchhub/websearch-mcp-go/internal/search"
	"github.com/searchhub/websearch-mcp-go/mcp"
	"github.com/searchhub/websearch-mcp-go/toolset"
)

type searchArgs struct {
	Query      string   `json:"query" jsonschema:"required,description=Search query text"`
	Limit      int      `json:"limit,omitempty" jsonschema:"description=Maximum number of results (default 10)"`
	Language   string   `json:"language,omitempty" jsonschema:"description=Language or market code passed to the provider"`
	TimeRange  string   `json:"timeRange,omitempty" jsonschema:"description=Restrict results by recency (day, week, month, year)"`
	Categories []string `json:"categories,omitempty" jsonschema:"description=Provider-specific result categories"`

	// Per-call provider overrides. When set they apply to this call only.
	Provider string `json:"provider,omitempty" jsonschema:"description=Search backend to use for this call"`
	APIURL   string `json:"apiUrl,omitempty" jsonschema:"description=Override the provider endpoint for this call"`
	APIKey   string `json:"apiKey,omitempty" jsonschema:"description=Override the provider API key for this call"`
}

type scrapeArgs struct {
	URL         string `json:"url" jsonschema:"required,description=Page URL to fetch"`
	IncludeHTML bool   `json:"includeHtml,omitempty" jsonschema:"description=Include the raw HTML alongside extracted text"`
	MaxLength   int    `json:"maxLength,omitempty" jsonschema:"description=Truncate extracted text to this many bytes"`
}

type mapArgs struct {
	URL          string `json:"url" jsonschema:"required,description=Page URL whose links to discover"`
	SameHostOnly bool   `json:"sameHostOnly,omitempty" jsonschema:"description=Only return links on the same host as the page"`
	Limit        int    `json:"limit,omitempty" jsonschema:"description=Maximum number of links to return"`
}

type extractArgs struct {
	URLs      []string `json:"urls" jsonschema:"required,description=Page URLs to fetch and extract text from"`
	MaxLength int      `json:"maxLength,omitempty" jsonschema:"description=Truncate each page's text to this many bytes"`
}

func (cfg Config) newToolSet() *toolset.Set {
	return toolset.New(
		toolset.NewTool("search", cfg.handleSearch,
			toolset.WithDescription("Search the web and return result titles, URLs, and snippets.")),
		toolset.NewTool("scrape", cfg.handleScrape,
			toolset.WithDescription("Fetch a single web page and return its title, description, and readable text.")),
		toolset.NewTool("map", cfg.handleMap,
			toolset.WithDescription("Fetch a web page and return the links it contains.")),
		toolset.NewTool("extract", cfg.handleExtract,
			toolset.WithDescription("Fetch multiple web pages and return their readable text.")),
	)
}

// searchConfigFor merges per-call overrides over the configured defaults into
// an explicit config for this one exchange.
func (cfg Config) searchConfigFor(args searchArgs) search.Config {
	sc := cfg.Search
	sc.Timeout = cfg.SearchTimeout
	if args.Provider != "" {
		sc.Provider = args.Provider
		// A provider switch invalidates the configured endpoint and key.
		sc.Endpoint = ""
		sc.APIKey = ""
	}
	if args.APIURL != "" {
		sc.Endpoint = args.APIURL
	}
	if args.APIKey != "" {
		sc.APIKey = args.APIKey
	}
	return sc
}

func (cfg Config) handleSearch(ctx context.Context, args searchArgs) (*mcp.CallToolResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return toolset.Errorf("search: query must not be empty"), nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 10
	}

	provider, err := cfg.SearchFactory(cfg.searchConfigFor(args))
	if err != nil {
		return toolset.Errorf("search: %v", err), nil
	}

	results, err := provider.Search(ctx, args.Query, search.Options{
		Limit:      limit,
		Language:   args.Language,
		TimeRange:  args.TimeRange,
		Categories: args.Categories,
	})
	if err != nil {
		return toolset.Errorf("search: %v", err), nil
	}

	return structuredResult(map[string]any{
		"provider": provider.Name(),
		"query":    args.Query,
		"results":  results,
	})
}

func (cfg Config) handleScrape(ctx context.Context, args scrapeArgs) (*mcp.CallToolResult, error) {
	if args.URL == "" {
		return toolset.Errorf("scrape: url must not be empty"), nil
	}
	page, err := cfg.Browser.Scrape(ctx, args.URL, browserScrapeOptions(args))
	if err != nil {
		return toolset.Errorf("scrape: %v", err), nil
	}
	return structuredResult(map[string]any{"page": page})
}

func (cfg Config) handleMap(ctx context.Context, args mapArgs) (*mcp.CallToolResult, error) {
	if args.URL == "" {
		return toolset.Errorf("map: url must not be empty"), nil
	}
	links, err := cfg.Browser.DiscoverLinks(ctx, args.URL, linkOptions(args))
	if err != nil {
		return toolset.Errorf("map: %v", err), nil
	}
	if links == nil {
		links = []string{}
	}
	return structuredResult(map[string]any{"url": args.URL, "links": links})
}

func (cfg Config) handleExtract(ctx context.Context, args extractArgs) (*mcp.CallToolResult, error) {
	if len(args.URLs) == 0 {
		return toolset.Errorf("extract: urls must not be empty"), nil
	}

	type extraction struct {
		URL   string `json:"url"`
		Title string `json:"title,omitempty"`
		Text  string `json:"text,omitempty"`
		Error string `json:"error,omitempty"`
	}

	// Per-URL failures are reported inline; one bad URL must not sink the
	// batch. The browser's own semaphore bounds the fan-out.
	out := make([]extraction, len(args.URLs))
	var wg sync.WaitGroup
	for i, u := range args.URLs {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			out[i].URL = u
			page, err := cfg.Browser.Scrape(ctx, u, browserScrapeOptions(scrapeArgs{URL: u, MaxLength: args.MaxLength}))
			if err != nil {
				out[i].Error = err.Error()
				return
			}
			out[i].Title = page.Title
			out[i].Text = page.Text
		}(i, u)
	}
	wg.Wait()

	return structuredResult(map[string]any{"pages": out})
}

func browserScrapeOptions(args scrapeArgs) browser.ScrapeOptions {
	return browser.ScrapeOptions{IncludeHTML: args.IncludeHTML, MaxTextLength: args.MaxLength}
}

func linkOptions(args mapArgs) browser.LinkOptions {
	return browser.LinkOptions{SameHostOnly: args.SameHostOnly, Limit: args.Limit}
}

// structuredResult encodes v both as a pretty text block and as structured
// content on the result.
func structuredResult(v map[string]any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	res := toolset.TextResult(string(b))
	res.StructuredContent = v
	return res, nil
}
