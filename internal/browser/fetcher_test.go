package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><head>
	<title>  Sample Page  </title>
	<meta name="description" content="A page for tests.">
	<script>var x = "should not appear";</script>
</head><body>
	<h1>Heading</h1>
	<p>Some   body
	text.</p>
	<a href="/relative">Rel</a>
	<a href="https://other.example/page">Other</a>
	<a href="/relative#frag">RelFrag</a>
	<a href="mailto:x@example.com">Mail</a>
</body></html>`

func TestScrape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher()
	page, err := f.Scrape(context.Background(), srv.URL, ScrapeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Sample Page", page.Title)
	assert.Equal(t, "A page for tests.", page.Description)
	assert.Contains(t, page.Text, "Some body text.")
	assert.NotContains(t, page.Text, "should not appear")
	assert.Empty(t, page.HTML)
}

func TestScrapeIncludeHTMLAndTruncate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher()
	page, err := f.Scrape(context.Background(), srv.URL, ScrapeOptions{IncludeHTML: true, MaxTextLength: 7})
	require.NoError(t, err)

	assert.Equal(t, "Heading", page.Text)
	assert.Contains(t, page.HTML, "<h1>Heading</h1>")
}

func TestScrapeTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>héllo wörld</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher()
	// A 2-byte limit lands inside the two-byte "é"; the cut must back off to
	// the rune boundary instead of emitting invalid UTF-8.
	page, err := f.Scrape(context.Background(), srv.URL, ScrapeOptions{MaxTextLength: 2})
	require.NoError(t, err)
	assert.Equal(t, "h", page.Text)
	assert.True(t, utf8.ValidString(page.Text))

	page, err = f.Scrape(context.Background(), srv.URL, ScrapeOptions{MaxTextLength: 3})
	require.NoError(t, err)
	assert.Equal(t, "hé", page.Text)
}

func TestScrapeUpstreamStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher()
	_, err := f.Scrape(context.Background(), srv.URL, ScrapeOptions{})

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusNotFound, serr.StatusCode)
}

func TestDiscoverLinks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher()
	links, err := f.DiscoverLinks(context.Background(), srv.URL, LinkOptions{})
	require.NoError(t, err)

	// Fragment-only duplicates collapse, mailto is dropped.
	assert.Equal(t, []string{srv.URL + "/relative", "https://other.example/page"}, links)
}

func TestDiscoverLinksSameHostOnly(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher()
	links, err := f.DiscoverLinks(context.Background(), srv.URL, LinkOptions{SameHostOnly: true})
	require.NoError(t, err)

	assert.Equal(t, []string{srv.URL + "/relative"}, links)
}

func TestConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		<-release
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher(WithConcurrency(2))
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := f.Scrape(context.Background(), srv.URL, ScrapeOptions{})
			errs <- err
		}()
	}

	// Give all four goroutines a chance to contend for slots.
	time.Sleep(100 * time.Millisecond)
	close(release)
	for i := 0; i < 4; i++ {
		require.NoError(t, <-errs)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAcquireTimesOut(t *testing.T) {
	t.Parallel()

	f := NewFetcher(WithConcurrency(1))
	f.slots <- struct{}{} // occupy the only slot

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Scrape(ctx, "http://example.invalid", ScrapeOptions{})
	require.ErrorIs(t, err, ErrTooManyRequests)
}
