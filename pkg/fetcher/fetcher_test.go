package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/librarycloud-harvester/pkg/caching"
	"github.com/dtnitsch/librarycloud-harvester/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageBody = `<results><pagination><start>%s</start><limit>%s</limit><numFound>3</numFound></pagination>
<items><mods><titleInfo><title>One</title></titleInfo></mods></items></results>`

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "melville", r.URL.Query().Get("q"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, pageBody, r.URL.Query().Get("start"), r.URL.Query().Get("limit"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPageURL(t *testing.T) {
	f := NewFetcher(Options{BaseURL: "https://api.lib.harvard.edu/v2/items"})

	u, err := f.PageURL("title:whale & sea", 50, 25)
	require.NoError(t, err)
	assert.Equal(t, "https://api.lib.harvard.edu/v2/items?limit=25&q=title%3Awhale+%26+sea&start=50", u)

	bad := NewFetcher(Options{BaseURL: "://nope"})
	_, err = bad.PageURL("x", 0, 1)
	assert.Error(t, err)
}

func TestGetPage(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	f := NewFetcher(Options{BaseURL: srv.URL, UserAgent: "test-agent", Timeout: 5 * time.Second})

	page, err := f.GetPage(context.Background(), "melville", 10, 5)
	require.NoError(t, err)

	assert.Equal(t, 10, page.Pagination.Start)
	assert.Equal(t, 5, page.Pagination.Limit)
	assert.Equal(t, 3, page.Pagination.NumFound)
	assert.Len(t, page.Records, 1)
	assert.False(t, page.FromCache)
	assert.Contains(t, page.URL, "start=10")
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestGetPage_StatusError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := f.GetPage(context.Background(), "q", 0, 10)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Contains(t, statusErr.URL, srv.URL)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "no retries by default")
}

func TestGetPage_CacheHitSkipsNetwork(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	f := NewFetcher(Options{BaseURL: srv.URL, UserAgent: "test-agent", Timeout: 5 * time.Second, Cache: cache})

	first, err := f.GetPage(context.Background(), "melville", 0, 1)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := f.GetPage(context.Background(), "melville", 0, 1)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Len(t, second.Records, 1)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestGetPage_UnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "xml"}`)
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	_, err := f.GetPage(context.Background(), "q", 0, 10)
	assert.Error(t, err)
}

func TestGetPage_BadBodyIsNotCached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><h1>Down for maintenance</h1></body></html>`)
			return
		}
		fmt.Fprintf(w, pageBody, r.URL.Query().Get("start"), r.URL.Query().Get("limit"))
	}))
	defer srv.Close()

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	require.NoError(t, err)
	f := NewFetcher(Options{BaseURL: srv.URL, Timeout: 5 * time.Second, Cache: cache})

	_, err = f.GetPage(context.Background(), "melville", 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrNoResults)

	page, err := f.GetPage(context.Background(), "melville", 0, 1)
	require.NoError(t, err)
	assert.False(t, page.FromCache)
	assert.Len(t, page.Records, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))

	page, err = f.GetPage(context.Background(), "melville", 0, 1)
	require.NoError(t, err)
	assert.True(t, page.FromCache)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}
