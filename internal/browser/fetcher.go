package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultConcurrency  = 4
	fetchUserAgent      = "Mozilla/5.0 (compatible; websearch-mcp/1.0)"
)

// Fetcher is an HTTP-backed Browser. A buffered channel bounds how many
// fetches run at once across all sessions sharing the instance.
type Fetcher struct {
	client *http.Client
	slots  chan struct{}
}

type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default client. Used by tests.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithConcurrency bounds simultaneous fetches. Values below 1 keep the
// default.
func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.slots = make(chan struct{}, n)
		}
	}
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultFetchTimeout},
		slots:  make(chan struct{}, defaultConcurrency),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Fetcher) acquire(ctx context.Context) (release func(), err error) {
	select {
	case f.slots <- struct{}{}:
		return func() { <-f.slots }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrTooManyRequests, ctx.Err())
	}
}

func (f *Fetcher) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	release, err := f.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("browser: build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browser: fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("browser: parse %s: %w", pageURL, err)
	}
	return doc, nil
}

func (f *Fetcher) Scrape(ctx context.Context, pageURL string, opts ScrapeOptions) (*Page, error) {
	doc, err := f.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page := &Page{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.Description = strings.TrimSpace(desc)
	}

	// Strip non-content elements before extracting text.
	doc.Find("script, style, noscript, iframe").Remove()
	page.Text = normalizeWhitespace(doc.Find("body").Text())
	if opts.MaxTextLength > 0 {
		page.Text = truncateText(page.Text, opts.MaxTextLength)
	}
	if opts.IncludeHTML {
		if html, err := doc.Html(); err == nil {
			page.HTML = html
		}
	}
	return page, nil
}

func (f *Fetcher) DiscoverLinks(ctx context.Context, pageURL string, opts LinkOptions) ([]string, error) {
	doc, err := f.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("browser: parse url %s: %w", pageURL, err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		resolved := resolveLink(base, href)
		if resolved == "" {
			return true
		}
		if opts.SameHostOnly {
			if u, err := url.Parse(resolved); err != nil || u.Host != base.Host {
				return true
			}
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
		return opts.Limit <= 0 || len(links) < opts.Limit
	})
	return links, nil
}

// resolveLink makes href absolute against base and drops fragments and
// non-HTTP schemes.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText cuts s to at most max bytes without splitting a UTF-8 rune, so
// the result stays valid for JSON encoding.
func truncateText(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
