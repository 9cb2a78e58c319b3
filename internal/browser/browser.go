// Package browser fetches and digests web pages for the scrape and map tools.
package browser

import (
	"context"
	"errors"
	"fmt"
)

// ErrTooManyRequests is returned when a fetch cannot acquire a concurrency
// slot before its context expires.
var ErrTooManyRequests = errors.New("browser: concurrency limit reached")

// Page is the digested form of a fetched document.
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text,omitempty"`
	HTML        string `json:"html,omitempty"`
}

// ScrapeOptions tunes a single page fetch.
type ScrapeOptions struct {
	// IncludeHTML keeps the raw document body in Page.HTML.
	IncludeHTML bool
	// MaxTextLength truncates extracted text when positive.
	MaxTextLength int
}

// LinkOptions tunes link discovery on a page.
type LinkOptions struct {
	// SameHostOnly drops links that leave the page's host.
	SameHostOnly bool
	// Limit caps the number of returned links when positive.
	Limit int
}

// Browser fetches pages. Implementations are safe for concurrent use.
type Browser interface {
	Scrape(ctx context.Context, pageURL string, opts ScrapeOptions) (*Page, error)
	DiscoverLinks(ctx context.Context, pageURL string, opts LinkOptions) ([]string, error)
}

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("browser: fetch %s: unexpected status %d", e.URL, e.StatusCode)
}
