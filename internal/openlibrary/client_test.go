package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const searchPayload = `{
	"numFound": 2,
	"docs": [
		{
			"title": "Dune",
			"author_name": ["Frank Herbert", "Someone Else"],
			"isbn": ["9780441013593", "0441013597"],
			"cover_i": 12345,
			"first_publish_year": 1965,
			"subject": ["Science fiction", "Desert planets", "Politics", "Ecology"],
			"number_of_pages_median": 412
		},
		{
			"title": "Anonymous Work"
		}
	]
}`

// newTestClient points the client at a stub directory server.
func newTestClient(t *testing.T, handler http.HandlerFunc, cache *redis.Client) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, cache, time.Hour, zap.NewNop())
}

func TestSearch_MapsDirectoryFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(searchPayload))
	}, nil)

	results, err := client.Search(context.Background(), "dune", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "Dune", first.Title)
	assert.Equal(t, "Frank Herbert", first.Author, "only the first listed author is kept")
	require.NotNil(t, first.ISBN)
	assert.Equal(t, "9780441013593", *first.ISBN)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12345-M.jpg", first.CoverURL)
	assert.Equal(t, "Science fiction, Desert planets, Politics", first.Synopsis, "at most three subjects")
	require.NotNil(t, first.PageCount)
	assert.Equal(t, 412, *first.PageCount)
	require.NotNil(t, first.Year)
	assert.Equal(t, 1965, *first.Year)

	second := results[1]
	assert.Equal(t, "Unknown Author", second.Author)
	assert.Nil(t, second.ISBN)
	assert.Empty(t, second.CoverURL)
	assert.Nil(t, second.PageCount)
}

func TestSearch_CacheHitSkipsDirectory(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(searchPayload))
	}, cache)

	ctx := context.Background()
	first, err := client.Search(ctx, "dune", 10)
	require.NoError(t, err)
	second, err := client.Search(ctx, "dune", 10)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "second lookup must come from cache")
	assert.Equal(t, first, second)

	// A different limit is a different cache entry.
	_, err = client.Search(ctx, "dune", 5)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSearch_DirectoryError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	_, err := client.Search(context.Background(), "dune", 10)
	assert.Error(t, err)
}

func TestByISBN(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("isbn") == "9780441013593" {
			w.Write([]byte(searchPayload))
			return
		}
		w.Write([]byte(`{"numFound": 0, "docs": []}`))
	}, nil)

	ctx := context.Background()
	result, err := client.ByISBN(ctx, "9780441013593")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Dune", result.Title)

	missing, err := client.ByISBN(ctx, "0000000000")
	require.NoError(t, err)
	assert.Nil(t, missing, "an unknown isbn is not an error")
}
