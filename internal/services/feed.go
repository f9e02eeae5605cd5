package services

import (
	"sort"
	"strings"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/google/uuid"
)

// FeedTypeFollowRequest is the item type of a pending follow request.
const FeedTypeFollowRequest = "FOLLOW_REQUEST"

// FeedActor is the user who caused a feed item.
type FeedActor struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	ProfilePicURL string    `json:"profile_pic_url"`
}

func actorFromProfile(p models.ProfileCompact) FeedActor {
	return FeedActor{
		ID:            p.ID,
		Username:      p.Username,
		DisplayName:   p.DisplayName,
		ProfilePicURL: p.ProfilePicURL,
	}
}

// FeedPayload describes the post a notification points at.
type FeedPayload struct {
	PostID       string `json:"post_id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FeedItem is the common display shape of every feed source.
type FeedItem struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Actor     FeedActor    `json:"actor"`
	IsRead    bool         `json:"is_read"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   *FeedPayload `json:"payload"`
}

// Feed is the merged, newest-first notification stream.
type Feed struct {
	Items       []FeedItem `json:"items"`
	UnreadCount int        `json:"unreadCount"`
}

// FeedEvent is implemented by the feed sources. Each carries only its own
// fields and is normalised into a FeedItem during the merge.
type FeedEvent interface {
	feedItem() FeedItem
}

// FollowRequestEvent is a pending follow addressed to the feed owner.
type FollowRequestEvent struct {
	Follower    models.ProfileCompact
	RequestedAt time.Time
}

// The follower id doubles as the item id, so at most one outstanding request
// per follower can be shown.
func (e FollowRequestEvent) feedItem() FeedItem {
	return FeedItem{
		ID:        e.Follower.ID.String(),
		Type:      FeedTypeFollowRequest,
		Actor:     actorFromProfile(e.Follower),
		IsRead:    false,
		Timestamp: e.RequestedAt,
	}
}

// ActivityEvent is a stored notification. Post is nil when the notification
// has no target or the target could not be resolved.
type ActivityEvent struct {
	ID        uuid.UUID
	Type      string
	Actor     models.ProfileCompact
	IsRead    bool
	CreatedAt time.Time
	Post      *FeedPayload
}

func (e ActivityEvent) feedItem() FeedItem {
	return FeedItem{
		ID:        e.ID.String(),
		Type:      strings.ToUpper(e.Type),
		Actor:     actorFromProfile(e.Actor),
		IsRead:    e.IsRead,
		Timestamp: e.CreatedAt,
		Payload:   e.Post,
	}
}

// MergeFeed concatenates requests before activity and stable-sorts the result
// newest first, so on equal timestamps follow requests come first.
func MergeFeed(requests []FollowRequestEvent, activity []ActivityEvent) Feed {
	events := make([]FeedEvent, 0, len(requests)+len(activity))
	for _, r := range requests {
		events = append(events, r)
	}
	for _, a := range activity {
		events = append(events, a)
	}

	items := make([]FeedItem, len(events))
	for i, ev := range events {
		items[i] = ev.feedItem()
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	unread := 0
	for _, it := range items {
		if !it.IsRead {
			unread++
		}
	}
	return Feed{Items: items, UnreadCount: unread}
}
