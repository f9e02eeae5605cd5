package services

import (
	"context"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Media is the normalised shape of a cached movie or series.
type Media struct {
	TMDBID      int64            `json:"tmdb_id"`
	Title       string           `json:"title"`
	PosterURL   string           `json:"poster_url"`
	ReleaseDate string           `json:"release_date"`
	BackdropURL string           `json:"backdrop_url"`
	Kind        models.MediaKind `json:"kind"`
}

func mediaFromRecord(rec models.MediaRecord, kind models.MediaKind) Media {
	return Media{
		TMDBID:      rec.TMDBID,
		Title:       rec.Title,
		PosterURL:   rec.PosterURL,
		ReleaseDate: rec.ReleaseDate,
		BackdropURL: rec.BackdropURL,
		Kind:        kind,
	}
}

// MediaLookup holds one id -> record mapping per media namespace.
type MediaLookup struct {
	Movies map[int64]Media
	Series map[int64]Media
}

// Resolve looks ref up in the mapping matching its kind.
func (l MediaLookup) Resolve(ref models.MediaRef) (Media, bool) {
	var m Media
	var ok bool
	switch ref.Kind {
	case models.MediaMovie:
		m, ok = l.Movies[ref.ID]
	case models.MediaSeries:
		m, ok = l.Series[ref.ID]
	}
	return m, ok
}

// CollectIDs splits refs into de-duplicated movie and series id sets,
// preserving first-seen order.
func CollectIDs(refs []models.MediaRef) (movieIDs, seriesIDs []int64) {
	seen := make(map[models.MediaRef]struct{}, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		switch ref.Kind {
		case models.MediaMovie:
			movieIDs = append(movieIDs, ref.ID)
		case models.MediaSeries:
			seriesIDs = append(seriesIDs, ref.ID)
		}
	}
	return movieIDs, seriesIDs
}

// MediaLoader resolves movie and series ids with one batched query per
// namespace.
type MediaLoader struct {
	repo repositories.MediaRepository
}

func NewMediaLoader(repo repositories.MediaRepository) *MediaLoader {
	return &MediaLoader{repo: repo}
}

// Load fetches both id sets concurrently. An empty set issues no query. A
// failed fetch is logged and yields an empty mapping for that namespace only,
// so Load never fails.
func (l *MediaLoader) Load(ctx context.Context, movieIDs, seriesIDs []int64) MediaLookup {
	lookup := MediaLookup{
		Movies: map[int64]Media{},
		Series: map[int64]Media{},
	}

	// Neither goroutine returns an error: a failure in one namespace must not
	// cancel the other.
	var g errgroup.Group
	if len(movieIDs) == 0 {
		metrics.BatchFetches.WithLabelValues("movies", "skipped").Inc()
	} else {
		g.Go(func() error {
			movies, err := l.repo.GetMoviesByIDs(ctx, movieIDs)
			if err != nil {
				logging.Ctx(ctx).Warn().Err(err).Int("ids", len(movieIDs)).Msg("movie batch fetch failed")
				metrics.BatchFetches.WithLabelValues("movies", "error").Inc()
				return nil
			}
			metrics.BatchFetches.WithLabelValues("movies", "ok").Inc()
			for _, m := range movies {
				lookup.Movies[m.TMDBID] = mediaFromRecord(m.MediaRecord, models.MediaMovie)
			}
			return nil
		})
	}
	if len(seriesIDs) == 0 {
		metrics.BatchFetches.WithLabelValues("series", "skipped").Inc()
	} else {
		g.Go(func() error {
			series, err := l.repo.GetSeriesByIDs(ctx, seriesIDs)
			if err != nil {
				logging.Ctx(ctx).Warn().Err(err).Int("ids", len(seriesIDs)).Msg("series batch fetch failed")
				metrics.BatchFetches.WithLabelValues("series", "error").Inc()
				return nil
			}
			metrics.BatchFetches.WithLabelValues("series", "ok").Inc()
			for _, s := range series {
				lookup.Series[s.TMDBID] = mediaFromRecord(s.MediaRecord, models.MediaSeries)
			}
			return nil
		})
	}
	_ = g.Wait()

	return lookup
}

// LoadRefs is Load over a mixed reference slice.
func (l *MediaLoader) LoadRefs(ctx context.Context, refs []models.MediaRef) MediaLookup {
	movieIDs, seriesIDs := CollectIDs(refs)
	return l.Load(ctx, movieIDs, seriesIDs)
}
