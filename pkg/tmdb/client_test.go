package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/550", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`{"id":550,"title":"Fight Club","poster_path":"/p.jpg","backdrop_path":"/b.jpg","release_date":"1999-10-15","genres":[{"id":18,"name":"Drama"},{"id":53,"name":"Thriller"}]}`))
	})
	mux.HandleFunc("/tv/1399", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		_, _ = w.Write([]byte(`{"id":1399,"name":"Game of Thrones","poster_path":"/got.jpg","first_air_date":"2011-04-17"}`))
	})
	mux.HandleFunc("/search/multi", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "dune", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"results":[{"id":1,"media_type":"movie","title":"Dune","poster_path":"/d.jpg"},{"id":2,"media_type":"movie","title":"No Art"},{"id":3,"media_type":"person","name":"Zendaya","profile_path":"/z.jpg"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetMovie(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, "test-key", WithRateLimit(rate.Inf, 1))

	d, err := c.GetMovie(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, int64(550), d.ID)
	assert.Equal(t, "Fight Club", d.DisplayTitle())
	assert.Equal(t, "1999-10-15", d.Date())
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", d.PosterURL())
	assert.Equal(t, "https://image.tmdb.org/t/p/original/b.jpg", d.BackdropURL())
	assert.Equal(t, "Drama, Thriller", d.GenreNames())
}

func TestGetSeriesUsesNameAndAirDate(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, "test-key", WithRateLimit(rate.Inf, 1))

	d, err := c.GetSeries(context.Background(), 1399)
	require.NoError(t, err)
	assert.Equal(t, "Game of Thrones", d.DisplayTitle())
	assert.Equal(t, "2011-04-17", d.Date())
	assert.Equal(t, "", d.BackdropURL())
}

func TestNotFound(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, "test-key", WithRateLimit(rate.Inf, 1))

	_, err := c.GetMovie(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTransportErrorOmitsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, "SECRET-KEY-123", WithRateLimit(rate.Inf, 1))

	_, err := c.GetMovie(context.Background(), 550)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
	assert.NotContains(t, err.Error(), "api_key")
	assert.Contains(t, err.Error(), "/movie/550")
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("http://unused", "")
	_, err := c.GetMovie(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCacheServesRepeatedLookups(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, "test-key", WithRateLimit(rate.Inf, 1), WithCache(newMemoryCache()))

	for i := 0; i < 3; i++ {
		_, err := c.GetMovie(context.Background(), 550)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestSearchMultiDropsResultsWithoutArtwork(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient(srv.URL, "test-key", WithRateLimit(rate.Inf, 1))

	results, err := c.SearchMulti(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Dune", results[0].Title)
	assert.Equal(t, "person", results[1].MediaType)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", ImageURL(posterBase, ""))
	assert.Equal(t, "https://cdn/x.jpg", ImageURL(posterBase, "https://cdn/x.jpg"))
	assert.Equal(t, posterBase+"/x.jpg", ImageURL(posterBase, "/x.jpg"))
}
