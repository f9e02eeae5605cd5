package services

import (
	"context"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/deeperweave/backend/pkg/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type NotificationService struct {
	notifications repositories.NotificationRepository
	follows       repositories.FollowRepository
	posts         repositories.PostRepository
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	follows repositories.FollowRepository,
	posts repositories.PostRepository,
) *NotificationService {
	return &NotificationService{notifications: notifications, follows: follows, posts: posts}
}

// Create stores a notification unless the actor is the recipient.
func (s *NotificationService) Create(ctx context.Context, recipientID, actorID uuid.UUID, kind string, targetPostID *string) error {
	if recipientID == actorID {
		return nil
	}
	return s.notifications.CreateNotification(ctx, &models.Notification{
		RecipientID:  recipientID,
		ActorID:      actorID,
		Type:         kind,
		TargetPostID: targetPostID,
	})
}

func (s *NotificationService) MarkAsRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	return s.notifications.MarkAsRead(ctx, recipientID, notificationID)
}

// MarkAllAsRead only touches stored notifications. Pending follow requests
// stay unread until they are approved or denied.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.notifications.MarkAllAsRead(ctx, recipientID)
}

func (s *NotificationService) Dismiss(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	return s.notifications.DeleteNotification(ctx, recipientID, notificationID)
}

// ConvertFollowRequest rewrites an approved request's notification as a new
// unread new_follower notification stamped at.
func (s *NotificationService) ConvertFollowRequest(ctx context.Context, recipientID, actorID uuid.UUID, at time.Time) error {
	return s.notifications.ConvertFollowRequest(ctx, recipientID, actorID, at)
}

func (s *NotificationService) DeleteMatching(ctx context.Context, match repositories.NotificationMatch) error {
	return s.notifications.DeleteMatching(ctx, match)
}

// GetMergedFeed merges pending follow requests with activity notifications.
// Either source failing degrades to an empty contribution; only a cancelled
// context is returned as an error.
func (s *NotificationService) GetMergedFeed(ctx context.Context, userID uuid.UUID) (*Feed, error) {
	var (
		pending  []models.FollowRequestWithProfile
		activity []models.Notification
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if pending, err = s.follows.GetPendingRequests(ctx, userID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("pending follow requests fetch failed")
			pending = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if activity, err = s.notifications.GetActivityByRecipient(ctx, userID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("notifications fetch failed")
			activity = nil
		}
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	posts := s.loadPosts(ctx, activity)

	requests := make([]FollowRequestEvent, 0, len(pending))
	for _, p := range pending {
		requests = append(requests, FollowRequestEvent{
			Follower:    p.Follower.ToCompact(),
			RequestedAt: p.CreatedAt,
		})
	}

	events := make([]ActivityEvent, 0, len(activity))
	for i := range activity {
		n := &activity[i]
		ev := ActivityEvent{
			ID:        n.ID,
			Type:      n.Type,
			Actor:     n.Actor.ToCompact(),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.TargetPostID != nil {
			if payload, ok := posts[*n.TargetPostID]; ok {
				p := payload
				ev.Post = &p
			} else {
				metrics.DanglingReferences.WithLabelValues("notification_post").Inc()
			}
		}
		events = append(events, ev)
	}

	feed := MergeFeed(requests, events)
	return &feed, nil
}

// UnreadCount is the badge count: unread activity plus pending follow
// requests, the same items GetMergedFeed reports as unread. Unlike the feed it
// fails instead of degrading.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var unread, pending int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		unread, err = s.notifications.GetUnreadCount(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		pending, err = s.follows.GetPendingCount(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return unread + pending, nil
}

// loadPosts resolves every referenced post with one batch query. A failure
// leaves all payloads empty.
func (s *NotificationService) loadPosts(ctx context.Context, activity []models.Notification) map[string]FeedPayload {
	out := map[string]FeedPayload{}

	seen := map[string]struct{}{}
	var ids []string
	for i := range activity {
		id := activity[i].TargetPostID
		if id == nil {
			continue
		}
		if _, dup := seen[*id]; dup {
			continue
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	if len(ids) == 0 {
		metrics.BatchFetches.WithLabelValues("posts", "skipped").Inc()
		return out
	}

	posts, err := s.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("ids", len(ids)).Msg("post batch fetch failed")
		metrics.BatchFetches.WithLabelValues("posts", "error").Inc()
		return out
	}
	metrics.BatchFetches.WithLabelValues("posts", "ok").Inc()

	for _, p := range posts {
		id := p.ID.Hex()
		out[id] = FeedPayload{
			PostID:       id,
			Slug:         p.Slug,
			Title:        p.Title,
			ThumbnailURL: p.BannerURL,
		}
	}
	return out
}
