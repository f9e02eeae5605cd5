package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationService_CreateSkipsSelf(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	svc := NewNotificationService(notifications, newFakeFollowRepo(), &fakePostRepo{})
	me := uuid.New()

	require.NoError(t, svc.Create(context.Background(), me, me, models.NotificationLike, nil))
	assert.Empty(t, notifications.created)

	require.NoError(t, svc.Create(context.Background(), uuid.New(), me, models.NotificationLike, nil))
	assert.Len(t, notifications.created, 1)
}

func TestGetMergedFeed(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	post := models.Post{ID: primitive.NewObjectID(), Slug: "dune-review-1a2b", Title: "Dune review", BannerURL: "/banner"}
	postID := post.ID.Hex()
	missing := primitive.NewObjectID().Hex()

	follows := newFakeFollowRepo()
	requester := models.Profile{ID: uuid.New(), Username: "req"}
	follows.pending = []models.FollowRequestWithProfile{{
		Follow:   models.Follow{FollowerID: requester.ID, Status: models.FollowPending, CreatedAt: now},
		Follower: requester,
	}}

	notifications := &fakeNotificationRepo{activity: []models.Notification{
		{ID: uuid.New(), Type: models.NotificationLike, TargetPostID: &postID, CreatedAt: now, Actor: models.Profile{Username: "liker"}},
		{ID: uuid.New(), Type: models.NotificationComment, TargetPostID: &missing, IsRead: true, CreatedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), Type: models.NotificationNewFollower, CreatedAt: now.Add(time.Hour)},
	}}
	posts := &fakePostRepo{posts: map[string]models.Post{postID: post}}

	feed, err := NewNotificationService(notifications, follows, posts).GetMergedFeed(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, feed.Items, 4)
	assert.Equal(t, "NEW_FOLLOWER", feed.Items[0].Type)
	assert.Equal(t, FeedTypeFollowRequest, feed.Items[1].Type)
	assert.Equal(t, requester.ID.String(), feed.Items[1].ID)
	assert.Equal(t, "LIKE", feed.Items[2].Type)
	require.NotNil(t, feed.Items[2].Payload)
	assert.Equal(t, "dune-review-1a2b", feed.Items[2].Payload.Slug)
	assert.Equal(t, "/banner", feed.Items[2].Payload.ThumbnailURL)
	assert.Nil(t, feed.Items[3].Payload)
	assert.Equal(t, 3, feed.UnreadCount)
	assert.Equal(t, 1, posts.batchCall)
}

func TestGetMergedFeed_DegradesOnFailures(t *testing.T) {
	follows := newFakeFollowRepo()
	follows.pendingErr = errors.New("timeout")
	target := primitive.NewObjectID().Hex()
	notifications := &fakeNotificationRepo{activity: []models.Notification{
		{ID: uuid.New(), Type: models.NotificationComment, TargetPostID: &target, CreatedAt: time.Now()},
	}}
	posts := &fakePostRepo{batchErr: errors.New("mongo down")}

	feed, err := NewNotificationService(notifications, follows, posts).GetMergedFeed(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Nil(t, feed.Items[0].Payload)
	assert.Equal(t, 1, feed.UnreadCount)
}

func TestGetMergedFeed_NoPostsSkipsBatch(t *testing.T) {
	posts := &fakePostRepo{}
	feed, err := NewNotificationService(&fakeNotificationRepo{}, newFakeFollowRepo(), posts).
		GetMergedFeed(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.Zero(t, posts.batchCall)
}

func TestUnreadCountMatchesFeed(t *testing.T) {
	now := time.Now()
	follows := newFakeFollowRepo()
	for i := 0; i < 2; i++ {
		follows.pending = append(follows.pending, models.FollowRequestWithProfile{
			Follow:   models.Follow{FollowerID: uuid.New(), Status: models.FollowPending, CreatedAt: now},
			Follower: models.Profile{ID: uuid.New()},
		})
	}

	// More activity than a single page would hold; every unread row counts.
	notifications := &fakeNotificationRepo{}
	for i := 0; i < 75; i++ {
		notifications.activity = append(notifications.activity, models.Notification{
			ID:        uuid.New(),
			Type:      models.NotificationNewFollower,
			IsRead:    i%3 == 0,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	svc := NewNotificationService(notifications, follows, &fakePostRepo{})
	feed, err := svc.GetMergedFeed(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, feed.Items, 77)
	assert.Equal(t, 2+50, feed.UnreadCount)

	count, err := svc.UnreadCount(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(feed.UnreadCount), count)
}

func TestUnreadCountFailsOnSourceError(t *testing.T) {
	follows := newFakeFollowRepo()
	follows.pendingErr = errors.New("timeout")

	_, err := NewNotificationService(&fakeNotificationRepo{}, follows, &fakePostRepo{}).
		UnreadCount(context.Background(), uuid.New())
	assert.Error(t, err)
}
