package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/tmdb"
	"github.com/google/uuid"
)

// fakeMediaRepo serves movies and series from memory and counts queries.
type fakeMediaRepo struct {
	movies      map[int64]models.Movie
	series      map[int64]models.Series
	moviesErr   error
	seriesErr   error
	movieCalls  atomic.Int32
	seriesCalls atomic.Int32

	mu       sync.Mutex
	upserted []int64
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{movies: map[int64]models.Movie{}, series: map[int64]models.Series{}}
}

func (f *fakeMediaRepo) addMovie(id int64, title, poster, backdrop string) {
	f.movies[id] = models.Movie{MediaRecord: models.MediaRecord{TMDBID: id, Title: title, PosterURL: poster, BackdropURL: backdrop}}
}

func (f *fakeMediaRepo) addSeries(id int64, title, poster, backdrop string) {
	f.series[id] = models.Series{MediaRecord: models.MediaRecord{TMDBID: id, Title: title, PosterURL: poster, BackdropURL: backdrop}}
}

func (f *fakeMediaRepo) GetMoviesByIDs(_ context.Context, ids []int64) ([]models.Movie, error) {
	f.movieCalls.Add(1)
	if f.moviesErr != nil {
		return nil, f.moviesErr
	}
	var out []models.Movie
	for _, id := range ids {
		if m, ok := f.movies[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) GetSeriesByIDs(_ context.Context, ids []int64) ([]models.Series, error) {
	f.seriesCalls.Add(1)
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	var out []models.Series
	for _, id := range ids {
		if s, ok := f.series[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) MovieExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.movies[id]
	return ok, nil
}

func (f *fakeMediaRepo) SeriesExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.series[id]
	return ok, nil
}

func (f *fakeMediaRepo) UpsertMovie(_ context.Context, m *models.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movies[m.TMDBID] = *m
	f.upserted = append(f.upserted, m.TMDBID)
	return nil
}

func (f *fakeMediaRepo) UpsertSeries(_ context.Context, s *models.Series) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.series[s.TMDBID] = *s
	f.upserted = append(f.upserted, s.TMDBID)
	return nil
}

// fakeSource stands in for the TMDB client.
type fakeSource struct {
	details map[int64]*tmdb.Details
	err     error
	calls   int
}

func (f *fakeSource) GetMovie(_ context.Context, id int64) (*tmdb.Details, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, tmdb.ErrNotFound
}

func (f *fakeSource) GetSeries(ctx context.Context, id int64) (*tmdb.Details, error) {
	return f.GetMovie(ctx, id)
}

// fakeListRepo keeps lists and entries in memory.
type fakeListRepo struct {
	lists   map[uuid.UUID]*models.List
	entries map[uuid.UUID][]models.ListEntry
	listErr error
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{lists: map[uuid.UUID]*models.List{}, entries: map[uuid.UUID][]models.ListEntry{}}
}

func (f *fakeListRepo) CreateList(_ context.Context, list *models.List) error {
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	list.CreatedAt = time.Now()
	list.UpdatedAt = list.CreatedAt
	cp := *list
	f.lists[list.ID] = &cp
	return nil
}

func (f *fakeListRepo) GetListByID(_ context.Context, id uuid.UUID) (*models.List, error) {
	l, ok := f.lists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListRepo) DeleteList(_ context.Context, _, listID uuid.UUID) error {
	delete(f.lists, listID)
	delete(f.entries, listID)
	return nil
}

func (f *fakeListRepo) GetListsByUser(_ context.Context, userID uuid.UUID, publicOnly bool) ([]models.List, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.List
	for _, l := range f.lists {
		if l.UserID != userID || (publicOnly && !l.IsPublic) {
			continue
		}
		cp := *l
		cp.Entries = f.entries[l.ID]
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeListRepo) GetEntries(_ context.Context, listID uuid.UUID) ([]models.ListEntry, error) {
	return f.entries[listID], nil
}

func (f *fakeListRepo) AddEntry(_ context.Context, entry *models.ListEntry) error {
	maxRank := 0
	for _, e := range f.entries[entry.ListID] {
		if e.Rank > maxRank {
			maxRank = e.Rank
		}
	}
	entry.Rank = maxRank + 1
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries[entry.ListID] = append(f.entries[entry.ListID], *entry)
	return nil
}

func (f *fakeListRepo) DeleteEntry(_ context.Context, listID, entryID uuid.UUID) error {
	entries := f.entries[listID]
	for i, e := range entries {
		if e.ID == entryID {
			f.entries[listID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeListRepo) UpdateEntryNote(_ context.Context, listID, entryID uuid.UUID, note *string) error {
	for i, e := range f.entries[listID] {
		if e.ID == entryID {
			f.entries[listID][i].Note = note
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeListRepo) ReorderEntries(_ context.Context, listID uuid.UUID, entryIDs []uuid.UUID) error {
	current := make([]uuid.UUID, 0, len(f.entries[listID]))
	for _, e := range f.entries[listID] {
		current = append(current, e.ID)
	}
	if err := repositories.CheckPermutation(current, entryIDs); err != nil {
		return err
	}
	for rank, id := range entryIDs {
		for i, e := range f.entries[listID] {
			if e.ID == id {
				f.entries[listID][i].Rank = rank + 1
			}
		}
	}
	return nil
}

// fakeFollowRepo embeds the interface; unimplemented methods panic.
type fakeFollowRepo struct {
	repositories.FollowRepository

	follows    map[[2]uuid.UUID]*models.Follow
	pending    []models.FollowRequestWithProfile
	pendingErr error
	countErr   error
	followers  int64
	following  int64
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: map[[2]uuid.UUID]*models.Follow{}}
}

func (f *fakeFollowRepo) UpsertFollow(_ context.Context, follow *models.Follow) error {
	cp := *follow
	f.follows[[2]uuid.UUID{follow.FollowerID, follow.FollowingID}] = &cp
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(_ context.Context, followerID, followingID uuid.UUID) error {
	delete(f.follows, [2]uuid.UUID{followerID, followingID})
	return nil
}

func (f *fakeFollowRepo) GetFollow(_ context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	follow, ok := f.follows[[2]uuid.UUID{followerID, followingID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return follow, nil
}

func (f *fakeFollowRepo) AcceptFollow(_ context.Context, followerID, followingID uuid.UUID) error {
	f.follows[[2]uuid.UUID{followerID, followingID}].Status = models.FollowAccepted
	return nil
}

func (f *fakeFollowRepo) GetPendingRequests(context.Context, uuid.UUID) ([]models.FollowRequestWithProfile, error) {
	return f.pending, f.pendingErr
}

func (f *fakeFollowRepo) GetPendingCount(context.Context, uuid.UUID) (int64, error) {
	return int64(len(f.pending)), f.pendingErr
}

func (f *fakeFollowRepo) GetFollowersCount(context.Context, uuid.UUID) (int64, error) {
	return f.followers, f.countErr
}

func (f *fakeFollowRepo) GetFollowingCount(context.Context, uuid.UUID) (int64, error) {
	return f.following, nil
}

// fakeNotificationRepo records writes and serves canned activity.
type fakeNotificationRepo struct {
	repositories.NotificationRepository

	activity  []models.Notification
	created   []models.Notification
	deleted   []repositories.NotificationMatch
	converted int
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) GetActivityByRecipient(context.Context, uuid.UUID) ([]models.Notification, error) {
	return f.activity, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(context.Context, uuid.UUID) (int64, error) {
	var n int64
	for _, a := range f.activity {
		if !a.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) DeleteMatching(_ context.Context, match repositories.NotificationMatch) error {
	f.deleted = append(f.deleted, match)
	return nil
}

func (f *fakeNotificationRepo) ConvertFollowRequest(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	f.converted++
	return nil
}

// fakePostRepo serves posts by hex id.
type fakePostRepo struct {
	repositories.PostRepository

	posts     map[string]models.Post
	batchErr  error
	batchCall int
	likes     int
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakePostRepo) GetPostsByIDs(_ context.Context, ids []string) ([]models.Post, error) {
	f.batchCall++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	var out []models.Post
	for _, id := range ids {
		if p, ok := f.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) IncrementLikesCount(_ context.Context, _ string, delta int) error {
	f.likes += delta
	return nil
}

type fakeProfileRepo struct {
	repositories.ProfileRepository

	profiles map[uuid.UUID]*models.Profile
}

func (f *fakeProfileRepo) GetProfileByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}

type fakeLikeRepo struct {
	repositories.LikeRepository

	likes map[string]bool
}

func (f *fakeLikeRepo) CreateLike(_ context.Context, like *models.Like) error {
	f.likes[like.PostID+like.UserID.String()] = true
	return nil
}

func (f *fakeLikeRepo) DeleteLike(_ context.Context, postID string, userID uuid.UUID) error {
	if !f.likes[postID+userID.String()] {
		return repositories.ErrNotFound
	}
	delete(f.likes, postID+userID.String())
	return nil
}

type fakeSavedRepo struct {
	items []models.SavedItem
}

func (f *fakeSavedRepo) SaveItem(_ context.Context, item *models.SavedItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeSavedRepo) UnsaveItem(context.Context, uuid.UUID, models.MediaRef) error { return nil }

func (f *fakeSavedRepo) GetSavedItemsByUser(context.Context, uuid.UUID) ([]models.SavedItem, error) {
	return f.items, nil
}

func movieEntry(rank int, id int64) models.ListEntry {
	return models.ListEntry{ID: uuid.New(), Rank: rank, MovieID: &id}
}

func seriesEntry(rank int, id int64) models.ListEntry {
	return models.ListEntry{ID: uuid.New(), Rank: rank, SeriesID: &id}
}

// fakeTimelineRepo keeps entries in insertion order and sorts on read like
// the Postgres repository.
type fakeTimelineRepo struct {
	entries []models.TimelineEntry
	readErr error
}

func (f *fakeTimelineRepo) CreateEntry(_ context.Context, e *models.TimelineEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeTimelineRepo) GetEntryByID(_ context.Context, id uuid.UUID) (*models.TimelineEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			e := f.entries[i]
			return &e, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeTimelineRepo) DeleteEntry(_ context.Context, ownerID, id uuid.UUID) error {
	for i := range f.entries {
		if f.entries[i].ID == id && f.entries[i].UserID == ownerID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeTimelineRepo) GetEntriesByUser(_ context.Context, userID uuid.UUID) ([]models.TimelineEntry, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []models.TimelineEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].WatchedOn.Equal(out[j].WatchedOn) {
			return out[i].WatchedOn.After(out[j].WatchedOn)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeTimelineRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	var n int64
	for _, e := range f.entries {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTimelineRepo) HasWatched(_ context.Context, userID uuid.UUID, ref models.MediaRef) (bool, error) {
	for i := range f.entries {
		if got, ok := f.entries[i].Ref(); ok && got == ref && f.entries[i].UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// fakeSectionRepo keeps sections in memory.
type fakeSectionRepo struct {
	sections map[uuid.UUID]*models.ProfileSection
	readErr  error
}

func newFakeSectionRepo() *fakeSectionRepo {
	return &fakeSectionRepo{sections: map[uuid.UUID]*models.ProfileSection{}}
}

func (f *fakeSectionRepo) CreateSection(_ context.Context, s *models.ProfileSection) error {
	maxRank := 0
	for _, existing := range f.sections {
		if existing.UserID == s.UserID && existing.Rank > maxRank {
			maxRank = existing.Rank
		}
	}
	s.Rank = maxRank + 1
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	f.sections[s.ID] = &cp
	return nil
}

func (f *fakeSectionRepo) GetSectionByID(_ context.Context, id uuid.UUID) (*models.ProfileSection, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSectionRepo) GetSectionsByUser(_ context.Context, userID uuid.UUID) ([]models.ProfileSection, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []models.ProfileSection
	for _, s := range f.sections {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (f *fakeSectionRepo) DeleteSection(_ context.Context, ownerID, id uuid.UUID) error {
	s, ok := f.sections[id]
	if !ok || s.UserID != ownerID {
		return repositories.ErrNotFound
	}
	delete(f.sections, id)
	return nil
}

func (f *fakeSectionRepo) ReplaceItems(_ context.Context, sectionID uuid.UUID, refs []models.MediaRef) ([]models.SectionItem, error) {
	items := make([]models.SectionItem, 0, len(refs))
	for i, ref := range refs {
		movieID, seriesID := ref.Columns()
		items = append(items, models.SectionItem{ID: uuid.New(), SectionID: sectionID, Rank: i + 1, MovieID: movieID, SeriesID: seriesID})
	}
	f.sections[sectionID].Items = items
	return items, nil
}
