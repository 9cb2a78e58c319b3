// Package search holds the stateless search-provider clients. Each provider is
// one request/response HTTP call to a third-party search API; selection happens
// per exchange through an explicit Config value, never through process-wide
// mutable state.
package search

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Result is one search hit in provider-independent shape.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Content string `json:"content,omitempty"`
}

// Options carries per-query tuning common to all providers. Providers ignore
// fields they cannot express.
type Options struct {
	Limit      int
	Language   string
	TimeRange  string
	Categories []string
}

// Config selects and parameterizes a provider for one exchange. It is
// constructed per request and threaded as a value; handlers must not fall back
// to globals for any of these fields.
type Config struct {
	Provider string
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Provider is a stateless search client.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, opts Options) ([]Result, error)
}

// Error wraps a provider-specific failure (network, timeout, malformed
// response) with the provider name.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string { return fmt.Sprintf("search provider %s: %v", e.Provider, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func errf(provider, format string, a ...any) error {
	return &Error{Provider: provider, Err: fmt.Errorf(format, a...)}
}

// Factory builds a provider from a per-exchange config.
type Factory func(cfg Config, client *http.Client) (Provider, error)

var factories = map[string]Factory{
	"searxng":    newSearXNG,
	"tavily":     newTavily,
	"bing":       newBing,
	"duckduckgo": newDuckDuckGo,
}

// Providers returns the known provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the provider named by cfg.Provider. The HTTP client honors
// cfg.Timeout (default 15s).
func New(cfg Config) (Provider, error) {
	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown search provider: %q", cfg.Provider)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return f(cfg, &http.Client{Timeout: timeout})
}
