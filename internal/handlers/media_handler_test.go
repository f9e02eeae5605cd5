package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deeperweave/backend/pkg/tmdb"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	movies map[int64]*tmdb.Details
	series map[int64]*tmdb.Details
	err    error
}

func (s *stubSearcher) GetMovie(_ context.Context, id int64) (*tmdb.Details, error) {
	if d, ok := s.movies[id]; ok {
		return d, nil
	}
	return nil, tmdb.ErrNotFound
}

func (s *stubSearcher) GetSeries(_ context.Context, id int64) (*tmdb.Details, error) {
	if d, ok := s.series[id]; ok {
		return d, nil
	}
	return nil, tmdb.ErrNotFound
}

func (s *stubSearcher) SearchMulti(context.Context, string) ([]tmdb.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []tmdb.SearchResult{{ID: 1396, MediaType: "tv", Name: "Breaking Bad"}}, nil
}

func TestMediaHandler_Details(t *testing.T) {
	searcher := &stubSearcher{
		movies: map[int64]*tmdb.Details{603: {ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31"}},
		series: map[int64]*tmdb.Details{1396: {ID: 1396, Name: "Breaking Bad", FirstAirDate: "2008-01-20"}},
	}
	e := newTestEcho()
	NewMediaHandler(searcher).RegisterMediaRoutes(e.Group("/api", asUser(uuid.New())))

	rec := doRequest(e, http.MethodGet, "/api/media/tv/1396", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Title       string `json:"title"`
			Kind        string `json:"kind"`
			ReleaseDate string `json:"release_date"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Breaking Bad", resp.Data.Title)
	assert.Equal(t, "series", resp.Data.Kind)
	assert.Equal(t, "2008-01-20", resp.Data.ReleaseDate)

	// Movie and series ids live in separate namespaces.
	assert.Equal(t, http.StatusNotFound, doRequest(e, http.MethodGet, "/api/media/movie/1396", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/api/media/movie/603", "").Code)

	assert.Equal(t, http.StatusBadRequest, doRequest(e, http.MethodGet, "/api/media/book/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(e, http.MethodGet, "/api/media/movie/-4", "").Code)
}

func TestMediaHandler_Search(t *testing.T) {
	e := newTestEcho()
	NewMediaHandler(&stubSearcher{}).RegisterMediaRoutes(e.Group("/api"))

	assert.Equal(t, http.StatusBadRequest, doRequest(e, http.MethodGet, "/api/media/search?q=%20", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(e, http.MethodGet, "/api/media/search?q=breaking", "").Code)

	e = newTestEcho()
	NewMediaHandler(&stubSearcher{err: tmdb.ErrNotConfigured}).RegisterMediaRoutes(e.Group("/api"))
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(e, http.MethodGet, "/api/media/search?q=x", "").Code)

	e = newTestEcho()
	NewMediaHandler(&stubSearcher{err: errors.New("circuit open")}).RegisterMediaRoutes(e.Group("/api"))
	assert.Equal(t, http.StatusBadGateway, doRequest(e, http.MethodGet, "/api/media/search?q=x", "").Code)
}
