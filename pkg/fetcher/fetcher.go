package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dtnitsch/librarycloud-harvester/models"
	"github.com/dtnitsch/librarycloud-harvester/pkg/caching"
	"github.com/dtnitsch/librarycloud-harvester/pkg/logger"
	"github.com/dtnitsch/librarycloud-harvester/pkg/parser"
	"github.com/sethgrid/pester"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Options configures a Fetcher.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// Retries is the number of extra attempts after a failed request.
	// Zero means a single attempt.
	Retries int
	Cache   *caching.Cache
	Logger  logger.Logger
}

// Fetcher pages through the LibraryCloud items API.
type Fetcher struct {
	client    *pester.Client
	baseURL   string
	userAgent string
	cache     *caching.Cache
	log       logger.Logger
}

func NewFetcher(opts Options) *Fetcher {
	client := pester.NewExtendedClient(&http.Client{Timeout: opts.Timeout})
	client.Concurrency = 1
	client.MaxRetries = 1 + max(opts.Retries, 0)
	client.Backoff = pester.ExponentialBackoff

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Fetcher{
		client:    client,
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		cache:     opts.Cache,
		log:       log,
	}
}

// PageURL builds the request URL for one page of query results.
func (f *Fetcher) PageURL(query string, start, limit int) (string, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", f.baseURL, err)
	}
	vs := u.Query()
	vs.Set("q", query)
	vs.Set("start", strconv.Itoa(start))
	vs.Set("limit", strconv.Itoa(limit))
	u.RawQuery = vs.Encode()
	return u.String(), nil
}

// GetPage fetches and parses one page. Cached responses are served without
// touching the network and are reported through Page.FromCache. A body that
// fails to parse is never cached.
func (f *Fetcher) GetPage(ctx context.Context, query string, start, limit int) (*models.Page, error) {
	pageURL, err := f.PageURL(query, start, limit)
	if err != nil {
		return nil, err
	}

	body, cached := f.fromCache(pageURL)
	if !cached {
		body, err = f.GetBytes(ctx, pageURL)
		if err != nil {
			return nil, err
		}
	}

	page, err := parser.ParsePage(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response from %s: %w", pageURL, err)
	}
	if !cached && f.cache != nil {
		if err := f.cache.Set(pageURL, body); err != nil {
			f.log.Warn("Failed to cache response", logger.String("url", pageURL), logger.Error(err))
		}
	}
	page.URL = pageURL
	page.FromCache = cached
	return page, nil
}

func (f *Fetcher) fromCache(pageURL string) ([]byte, bool) {
	if f.cache == nil {
		return nil, false
	}
	body, ok := f.cache.Get(pageURL)
	if ok {
		f.log.Debug("Cache hit", logger.String("url", pageURL))
	}
	return body, ok
}

// GetBytes performs a GET and returns the body of a 2xx response.
func (f *Fetcher) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/xml")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.log.Debug("GET", logger.String("url", rawURL))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	f.log.Debug("Response",
		logger.String("url", rawURL),
		logger.Int("status", resp.StatusCode),
		logger.String("content_type", resp.Header.Get("Content-Type")),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}
	return bodyBytes, nil
}
