package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/internal/services"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTimelineRepo struct {
	repositories.TimelineRepository

	entries []models.TimelineEntry
}

func (r *stubTimelineRepo) GetEntriesByUser(_ context.Context, userID uuid.UUID) ([]models.TimelineEntry, error) {
	var out []models.TimelineEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubFollowRepo struct {
	repositories.FollowRepository

	accepted map[uuid.UUID]bool
}

func (r *stubFollowRepo) GetFollow(_ context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	if !r.accepted[followerID] {
		return nil, repositories.ErrNotFound
	}
	return &models.Follow{FollowerID: followerID, FollowingID: followingID, Status: models.FollowAccepted}, nil
}

type timelineHandlerFixture struct {
	e        *echo.Echo
	owner    uuid.UUID
	follower uuid.UUID
}

func newTimelineHandlerFixture(private bool, viewer func(f *timelineHandlerFixture) uuid.UUID) *timelineHandlerFixture {
	f := &timelineHandlerFixture{owner: uuid.New(), follower: uuid.New()}

	profiles := newMemProfileRepo()
	profiles.profiles[f.owner] = &models.Profile{ID: f.owner, Username: "owner", IsPrivate: private}
	follows := &stubFollowRepo{accepted: map[uuid.UUID]bool{f.follower: true}}
	social := services.NewSocialService(profiles, follows, nil)

	movieID := int64(603)
	entries := &stubTimelineRepo{entries: []models.TimelineEntry{
		{ID: uuid.New(), UserID: f.owner, MovieID: &movieID, WatchedOn: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}}
	media := &stubMediaRepo{movies: map[int64]models.Movie{
		603: {MediaRecord: models.MediaRecord{TMDBID: 603, Title: "The Matrix"}},
	}}
	svc := services.NewTimelineService(entries, nil, services.NewMediaLoader(media), nil)

	f.e = newTestEcho()
	NewTimelineHandler(svc, profiles, social).RegisterTimelineRoutes(f.e.Group("/api", asUser(viewer(f))))
	return f
}

type timelineResponse struct {
	Success bool                    `json:"success"`
	Data    []services.TimelineItem `json:"data"`
}

func getTimeline(t *testing.T, f *timelineHandlerFixture) []services.TimelineItem {
	t.Helper()
	rec := doRequest(f.e, http.MethodGet, "/api/profiles/"+f.owner.String()+"/timeline", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp timelineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestGetTimeline_Public(t *testing.T) {
	f := newTimelineHandlerFixture(false, func(*timelineHandlerFixture) uuid.UUID { return uuid.New() })

	items := getTimeline(t, f)
	require.Len(t, items, 1)
	assert.Equal(t, "The Matrix", items[0].Media.Title)
	assert.Equal(t, "2024-05-01", items[0].WatchedOn)
}

func TestGetTimeline_PrivateProfile(t *testing.T) {
	stranger := newTimelineHandlerFixture(true, func(*timelineHandlerFixture) uuid.UUID { return uuid.New() })
	assert.Empty(t, getTimeline(t, stranger))

	follower := newTimelineHandlerFixture(true, func(f *timelineHandlerFixture) uuid.UUID { return f.follower })
	assert.Len(t, getTimeline(t, follower), 1)

	owner := newTimelineHandlerFixture(true, func(f *timelineHandlerFixture) uuid.UUID { return f.owner })
	assert.Len(t, getTimeline(t, owner), 1)
}

func TestGetTimeline_UnknownProfile(t *testing.T) {
	f := newTimelineHandlerFixture(false, func(*timelineHandlerFixture) uuid.UUID { return uuid.New() })
	rec := doRequest(f.e, http.MethodGet, "/api/profiles/"+uuid.NewString()+"/timeline", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogWatch_BadRequests(t *testing.T) {
	f := newTimelineHandlerFixture(false, func(f *timelineHandlerFixture) uuid.UUID { return f.owner })

	cases := map[string]string{
		"missing date":    `{"media_type":"movie","tmdb_id":603}`,
		"malformed date":  `{"media_type":"movie","tmdb_id":603,"watched_on":"01/05/2024"}`,
		"unknown medium":  `{"media_type":"movie","tmdb_id":603,"watched_on":"2024-05-01","viewing_medium":"vhs"}`,
		"off-step rating": `{"media_type":"movie","tmdb_id":603,"watched_on":"2024-05-01","rating":3.3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(f.e, http.MethodPost, "/api/timeline", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}
