package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/metrics"
	"github.com/deeperweave/backend/pkg/tmdb"
	"github.com/google/uuid"
)

// WatchLog is a viewing to record on a user's timeline.
type WatchLog struct {
	Ref       models.MediaRef
	WatchedOn time.Time
	// Rating is 0..5 in half steps; 0 means unrated.
	Rating        float64
	Notes         string
	ViewingMedium string
	OTTPlatform   string
	PostID        string
}

// TimelineItem is a timeline entry joined with its media and review slug.
type TimelineItem struct {
	ID             uuid.UUID `json:"id"`
	WatchedOn      string    `json:"watched_on"`
	Rating         *float64  `json:"rating"`
	Notes          *string   `json:"notes"`
	IsRewatch      bool      `json:"is_rewatch"`
	ViewingContext *string   `json:"viewing_context"`
	CreatedAt      time.Time `json:"created_at"`
	Media          Media     `json:"media"`
	PostSlug       *string   `json:"post_slug"`
}

type TimelineService struct {
	entries repositories.TimelineRepository
	posts   repositories.PostRepository
	loader  *MediaLoader
	cache   *MediaCache
}

func NewTimelineService(entries repositories.TimelineRepository, posts repositories.PostRepository, loader *MediaLoader, cache *MediaCache) *TimelineService {
	return &TimelineService{entries: entries, posts: posts, loader: loader, cache: cache}
}

// LogWatch records a viewing. Logging something already on the timeline
// marks the new entry as a rewatch.
func (s *TimelineService) LogWatch(ctx context.Context, userID uuid.UUID, in WatchLog) (*models.TimelineEntry, error) {
	if in.Rating < 0 || in.Rating > 5 || math.Mod(in.Rating*2, 1) != 0 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5 in steps of 0.5", ErrInvalidInput)
	}
	where, err := viewingContext(in.ViewingMedium, in.OTTPlatform)
	if err != nil {
		return nil, err
	}

	entry := &models.TimelineEntry{
		UserID:         userID,
		WatchedOn:      in.WatchedOn,
		ViewingContext: where,
	}
	entry.MovieID, entry.SeriesID = in.Ref.Columns()
	if in.Rating > 0 {
		r := in.Rating
		entry.Rating = &r
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		entry.Notes = &n
	}

	if in.PostID != "" {
		post, err := s.posts.GetPostByID(ctx, in.PostID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: post %s does not exist", ErrInvalidInput, in.PostID)
			}
			return nil, err
		}
		if post.AuthorID != userID.String() {
			return nil, ErrForbidden
		}
		entry.PostID = &in.PostID
	}

	// An uncached title would never resolve on the timeline, so a failed warm
	// fails the log.
	if err := s.cache.Ensure(ctx, in.Ref); err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown %s %d", ErrInvalidInput, in.Ref.Kind, in.Ref.ID)
		}
		return nil, fmt.Errorf("cache %s %d: %w", in.Ref.Kind, in.Ref.ID, err)
	}

	if entry.IsRewatch, err = s.entries.HasWatched(ctx, userID, in.Ref); err != nil {
		return nil, err
	}
	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func viewingContext(medium, platform string) (*string, error) {
	switch medium {
	case "":
		return nil, nil
	case models.ViewingTheatre:
		c := "Theatre"
		return &c, nil
	case models.ViewingOTT:
		p := strings.TrimSpace(platform)
		if p == "" {
			return nil, fmt.Errorf("%w: an OTT platform is required", ErrInvalidInput)
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("%w: unknown viewing medium %q", ErrInvalidInput, medium)
	}
}

func (s *TimelineService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	entry, err := s.entries.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return ErrForbidden
	}
	return s.entries.DeleteEntry(ctx, userID, entryID)
}

// Timeline returns the user's watch log, most recent viewing first. Media and
// review slugs are each resolved with one batch query; entries whose media
// is missing are dropped. A failed read yields an empty timeline.
func (s *TimelineService) Timeline(ctx context.Context, userID uuid.UUID) []TimelineItem {
	out := []TimelineItem{}

	entries, err := s.entries.GetEntriesByUser(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("timeline fetch failed")
		return out
	}

	refs := make([]models.MediaRef, 0, len(entries))
	var postIDs []string
	for i := range entries {
		if ref, ok := entries[i].Ref(); ok {
			refs = append(refs, ref)
		}
		if entries[i].PostID != nil {
			postIDs = append(postIDs, *entries[i].PostID)
		}
	}
	lookup := s.loader.LoadRefs(ctx, refs)
	slugs := s.loadSlugs(ctx, postIDs)

	for i := range entries {
		e := &entries[i]
		ref, ok := e.Ref()
		if !ok {
			metrics.DanglingReferences.WithLabelValues("timeline_entry").Inc()
			continue
		}
		media, ok := lookup.Resolve(ref)
		if !ok {
			metrics.DanglingReferences.WithLabelValues("timeline_entry").Inc()
			continue
		}
		item := TimelineItem{
			ID:             e.ID,
			WatchedOn:      e.WatchedOn.Format("2006-01-02"),
			Rating:         e.Rating,
			Notes:          copyString(e.Notes),
			IsRewatch:      e.IsRewatch,
			ViewingContext: copyString(e.ViewingContext),
			CreatedAt:      e.CreatedAt,
			Media:          media,
		}
		if e.PostID != nil {
			if slug, ok := slugs[*e.PostID]; ok {
				item.PostSlug = &slug
			}
		}
		out = append(out, item)
	}
	return out
}

func (s *TimelineService) loadSlugs(ctx context.Context, ids []string) map[string]string {
	out := map[string]string{}
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		metrics.BatchFetches.WithLabelValues("posts", "skipped").Inc()
		return out
	}
	posts, err := s.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("ids", len(ids)).Msg("timeline post batch fetch failed")
		metrics.BatchFetches.WithLabelValues("posts", "error").Inc()
		return out
	}
	metrics.BatchFetches.WithLabelValues("posts", "ok").Inc()
	for _, p := range posts {
		out[p.ID.Hex()] = p.Slug
	}
	return out
}

// Count is the number of timeline entries, 0 when the count fails.
func (s *TimelineService) Count(ctx context.Context, userID uuid.UUID) int64 {
	n, err := s.entries.CountByUser(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("timeline count failed")
		return 0
	}
	return n
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
