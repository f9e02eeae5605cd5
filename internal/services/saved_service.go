package services

import (
	"context"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/metrics"
	"github.com/google/uuid"
)

type SavedMedia struct {
	ID      uuid.UUID `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Media   Media     `json:"media"`
}

// SavedView is a user's bookmarks, newest first, with per-kind counts of the
// items that resolved.
type SavedView struct {
	Items       []SavedMedia `json:"items"`
	MovieCount  int          `json:"movie_count"`
	SeriesCount int          `json:"series_count"`
}

type SavedService struct {
	saved  repositories.SavedItemRepository
	loader *MediaLoader
	cache  *MediaCache
}

func NewSavedService(saved repositories.SavedItemRepository, loader *MediaLoader, cache *MediaCache) *SavedService {
	return &SavedService{saved: saved, loader: loader, cache: cache}
}

// Save bookmarks ref for userID. Saving twice is not an error.
func (s *SavedService) Save(ctx context.Context, userID uuid.UUID, ref models.MediaRef) error {
	if err := s.cache.Ensure(ctx, ref); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("kind", string(ref.Kind)).Int64("tmdb_id", ref.ID).
			Msg("media cache warm failed")
	}
	movieID, seriesID := ref.Columns()
	return s.saved.SaveItem(ctx, &models.SavedItem{UserID: userID, MovieID: movieID, SeriesID: seriesID})
}

func (s *SavedService) Unsave(ctx context.Context, userID uuid.UUID, ref models.MediaRef) error {
	return s.saved.UnsaveItem(ctx, userID, ref)
}

// View resolves the bookmarks through the batch loader; dangling ones are
// dropped.
func (s *SavedService) View(ctx context.Context, userID uuid.UUID) SavedView {
	view := SavedView{Items: []SavedMedia{}}

	items, err := s.saved.GetSavedItemsByUser(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("saved items fetch failed")
		return view
	}

	refs := make([]models.MediaRef, 0, len(items))
	for i := range items {
		if ref, ok := models.RefFromColumns(items[i].MovieID, items[i].SeriesID); ok {
			refs = append(refs, ref)
		}
	}
	lookup := s.loader.LoadRefs(ctx, refs)

	for i := range items {
		ref, ok := models.RefFromColumns(items[i].MovieID, items[i].SeriesID)
		if !ok {
			metrics.DanglingReferences.WithLabelValues("saved_item").Inc()
			continue
		}
		media, ok := lookup.Resolve(ref)
		if !ok {
			metrics.DanglingReferences.WithLabelValues("saved_item").Inc()
			continue
		}
		view.Items = append(view.Items, SavedMedia{ID: items[i].ID, SavedAt: items[i].CreatedAt, Media: media})
		if ref.Kind == models.MediaMovie {
			view.MovieCount++
		} else {
			view.SeriesCount++
		}
	}
	return view
}
