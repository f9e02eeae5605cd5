package services

import (
	"context"
	"fmt"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/tmdb"
)

// MetadataSource is the subset of the TMDB client the cache needs.
type MetadataSource interface {
	GetMovie(ctx context.Context, id int64) (*tmdb.Details, error)
	GetSeries(ctx context.Context, id int64) (*tmdb.Details, error)
}

// MediaCache makes sure a referenced movie or series has a local row before
// anything points at it.
type MediaCache struct {
	repo   repositories.MediaRepository
	source MetadataSource
}

func NewMediaCache(repo repositories.MediaRepository, source MetadataSource) *MediaCache {
	return &MediaCache{repo: repo, source: source}
}

// Ensure is a no-op when the row already exists; otherwise it fetches the
// details and upserts them on tmdb_id.
func (c *MediaCache) Ensure(ctx context.Context, ref models.MediaRef) error {
	switch ref.Kind {
	case models.MediaMovie:
		return c.EnsureMovie(ctx, ref.ID)
	case models.MediaSeries:
		return c.EnsureSeries(ctx, ref.ID)
	default:
		return fmt.Errorf("unknown media kind %q", ref.Kind)
	}
}

func (c *MediaCache) EnsureMovie(ctx context.Context, id int64) error {
	exists, err := c.repo.MovieExists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	d, err := c.source.GetMovie(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch movie %d: %w", id, err)
	}
	return c.repo.UpsertMovie(ctx, &models.Movie{MediaRecord: recordFromDetails(id, d)})
}

func (c *MediaCache) EnsureSeries(ctx context.Context, id int64) error {
	exists, err := c.repo.SeriesExists(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	d, err := c.source.GetSeries(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch series %d: %w", id, err)
	}
	return c.repo.UpsertSeries(ctx, &models.Series{MediaRecord: recordFromDetails(id, d)})
}

func recordFromDetails(id int64, d *tmdb.Details) models.MediaRecord {
	return models.MediaRecord{
		TMDBID:      id,
		Title:       d.DisplayTitle(),
		PosterURL:   d.PosterURL(),
		BackdropURL: d.BackdropURL(),
		ReleaseDate: d.Date(),
		Overview:    d.Overview,
		Genres:      d.GenreNames(),
		UpdatedAt:   time.Now(),
	}
}
