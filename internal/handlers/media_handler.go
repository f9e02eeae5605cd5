package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/pkg/tmdb"
	"github.com/labstack/echo/v4"
)

// MetadataSearcher is the subset of the TMDB client the media routes use.
type MetadataSearcher interface {
	GetMovie(ctx context.Context, id int64) (*tmdb.Details, error)
	GetSeries(ctx context.Context, id int64) (*tmdb.Details, error)
	SearchMulti(ctx context.Context, query string) ([]tmdb.SearchResult, error)
}

// MediaHandler proxies TMDB lookups
type MediaHandler struct {
	tmdb MetadataSearcher
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(client MetadataSearcher) *MediaHandler {
	return &MediaHandler{tmdb: client}
}

// RegisterMediaRoutes registers media metadata routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.GET("/media/search", h.Search)
	g.GET("/media/:kind/:id", h.GetDetails)
}

func (h *MediaHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}
	results, err := h.tmdb.SearchMulti(c.Request().Context(), query)
	if err != nil {
		return tmdbError(err)
	}
	return respond(c, http.StatusOK, results)
}

func (h *MediaHandler) GetDetails(c echo.Context) error {
	kind, ok := models.ParseMediaKind(c.Param("kind"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid media kind")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid TMDB id")
	}

	var d *tmdb.Details
	if kind == models.MediaMovie {
		d, err = h.tmdb.GetMovie(c.Request().Context(), id)
	} else {
		d, err = h.tmdb.GetSeries(c.Request().Context(), id)
	}
	if err != nil {
		return tmdbError(err)
	}
	return respond(c, http.StatusOK, echo.Map{
		"tmdb_id":      d.ID,
		"kind":         kind,
		"title":        d.DisplayTitle(),
		"poster_url":   d.PosterURL(),
		"backdrop_url": d.BackdropURL(),
		"release_date": d.Date(),
		"overview":     d.Overview,
		"genres":       d.GenreNames(),
	})
}

func tmdbError(err error) error {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found on TMDB")
	case errors.Is(err, tmdb.ErrNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Media search is not configured")
	default:
		return echo.NewHTTPError(http.StatusBadGateway, "TMDB request failed")
	}
}
