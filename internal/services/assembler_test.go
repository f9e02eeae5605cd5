package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/deeperweave/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFor(repo *fakeMediaRepo, entries []models.ListEntry) MediaLookup {
	return NewMediaLoader(repo).LoadRefs(context.Background(), EntryRefs(entries))
}

func TestAssembleEntries_PreservesOrder(t *testing.T) {
	repo := newFakeMediaRepo()
	var entries []models.ListEntry
	for i := 1; i <= 5; i++ {
		id := int64(100 + i)
		repo.addMovie(id, "m", "/p", "")
		entries = append(entries, movieEntry(i*10, id))
	}

	got := AssembleEntries(entries, lookupFor(repo, entries))

	require.Len(t, got.Entries, 5)
	for i, e := range got.Entries {
		assert.Equal(t, entries[i].ID, e.ID)
		assert.Equal(t, entries[i].Rank, e.Rank)
	}
}

func TestAssembleEntries_DropsDangling(t *testing.T) {
	repo := newFakeMediaRepo()
	repo.addMovie(1, "A", "/a", "/backdrop-a")
	repo.addSeries(5, "C", "/c", "")

	a := movieEntry(1, 1)
	b := movieEntry(2, 999)
	c := seriesEntry(3, 5)
	entries := []models.ListEntry{a, b, c}

	got := AssembleEntries(entries, lookupFor(repo, entries))

	require.Len(t, got.Entries, 2)
	assert.Equal(t, a.ID, got.Entries[0].ID)
	assert.Equal(t, c.ID, got.Entries[1].ID)
	assert.Equal(t, models.MediaSeries, got.Entries[1].Media.Kind)
	require.NotNil(t, got.HeaderBackdrop)
	assert.Equal(t, "/backdrop-a", *got.HeaderBackdrop)
}

func TestAssembleEntries_Empty(t *testing.T) {
	got := AssembleEntries(nil, MediaLookup{})
	assert.NotNil(t, got.Entries)
	assert.Empty(t, got.Entries)
	assert.Nil(t, got.HeaderBackdrop)
}

func TestAssembleEntries_NoneResolve(t *testing.T) {
	entries := []models.ListEntry{movieEntry(1, 1), seriesEntry(2, 2)}
	got := AssembleEntries(entries, lookupFor(newFakeMediaRepo(), entries))
	assert.Empty(t, got.Entries)
	assert.Nil(t, got.HeaderBackdrop)
}

func TestAssembleEntries_BackdropOnlyFromFirstEntry(t *testing.T) {
	repo := newFakeMediaRepo()
	repo.addMovie(2, "B", "", "/b")
	entries := []models.ListEntry{movieEntry(1, 1), movieEntry(2, 2)}

	got := AssembleEntries(entries, lookupFor(repo, entries))

	require.Len(t, got.Entries, 1)
	assert.Nil(t, got.HeaderBackdrop)
}

func TestAssembleEntries_Idempotent(t *testing.T) {
	repo := newFakeMediaRepo()
	repo.addMovie(1, "A", "/a", "/ba")
	repo.addSeries(2, "B", "/b", "")
	note := "rewatch"
	e1 := movieEntry(1, 1)
	e1.Note = &note
	entries := []models.ListEntry{e1, seriesEntry(2, 2), movieEntry(3, 404)}
	lookup := lookupFor(repo, entries)

	snapshot, err := json.Marshal(entries)
	require.NoError(t, err)

	first, err := json.Marshal(AssembleEntries(entries, lookup))
	require.NoError(t, err)
	second, err := json.Marshal(AssembleEntries(entries, lookup))
	require.NoError(t, err)
	after, err := json.Marshal(entries)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, after)
}
