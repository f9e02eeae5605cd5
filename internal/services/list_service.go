package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deeperweave/backend/internal/models"
	"github.com/deeperweave/backend/internal/repositories"
	"github.com/deeperweave/backend/pkg/logging"
	"github.com/google/uuid"
)

// ListDetails is a fully assembled list.
type ListDetails struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Title          string         `json:"title"`
	Description    *string        `json:"description"`
	IsPublic       bool           `json:"is_public"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	ItemCount      int            `json:"item_count"`
	HeaderBackdrop *string        `json:"header_backdrop"`
	Entries        []DisplayEntry `json:"entries"`
}

type ListService struct {
	lists  repositories.ListRepository
	loader *MediaLoader
	cache  *MediaCache
}

func NewListService(lists repositories.ListRepository, loader *MediaLoader, cache *MediaCache) *ListService {
	return &ListService{lists: lists, loader: loader, cache: cache}
}

// AssembleList loads a list, batch-resolves its media and joins them in rank
// order. An unknown list yields ErrListNotFound.
func (s *ListService) AssembleList(ctx context.Context, listID uuid.UUID) (*ListDetails, error) {
	list, err := s.lists.GetListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	entries, err := s.lists.GetEntries(ctx, listID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("list_id", listID.String()).Msg("list entries fetch failed")
		entries = nil
	}

	lookup := s.loader.LoadRefs(ctx, EntryRefs(entries))
	assembly := AssembleEntries(entries, lookup)

	return &ListDetails{
		ID:             list.ID,
		UserID:         list.UserID,
		Title:          list.Title,
		Description:    list.Description,
		IsPublic:       list.IsPublic,
		CreatedAt:      list.CreatedAt,
		UpdatedAt:      list.UpdatedAt,
		ItemCount:      len(entries),
		HeaderBackdrop: assembly.HeaderBackdrop,
		Entries:        assembly.Entries,
	}, nil
}

// GetUserLists returns every list of userID, most recently updated first.
func (s *ListService) GetUserLists(ctx context.Context, userID uuid.UUID) []ListSummary {
	return s.summaries(ctx, userID, false)
}

// GetPublicLists returns only the public lists of userID.
func (s *ListService) GetPublicLists(ctx context.Context, userID uuid.UUID) []ListSummary {
	return s.summaries(ctx, userID, true)
}

// summaries resolves the media of every list with a single batch load.
func (s *ListService) summaries(ctx context.Context, userID uuid.UUID, publicOnly bool) []ListSummary {
	lists, err := s.lists.GetListsByUser(ctx, userID, publicOnly)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("lists fetch failed")
		return []ListSummary{}
	}

	var refs []models.MediaRef
	for i := range lists {
		refs = append(refs, EntryRefs(lists[i].Entries)...)
	}
	lookup := s.loader.LoadRefs(ctx, refs)

	out := make([]ListSummary, 0, len(lists))
	for i := range lists {
		assembly := AssembleEntries(lists[i].Entries, lookup)
		out = append(out, ProjectListSummary(&lists[i], len(lists[i].Entries), assembly.Entries))
	}
	return out
}

// CreateList creates a list owned by userID. Lists are public unless isPublic
// says otherwise.
func (s *ListService) CreateList(ctx context.Context, userID uuid.UUID, title, description string, isPublic *bool) (*models.List, error) {
	list := &models.List{
		UserID:   userID,
		Title:    strings.TrimSpace(title),
		IsPublic: true,
	}
	if d := strings.TrimSpace(description); d != "" {
		list.Description = &d
	}
	if isPublic != nil {
		list.IsPublic = *isPublic
	}
	if err := s.lists.CreateList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ListService) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	return s.lists.DeleteList(ctx, userID, listID)
}

// AddToList appends ref at the bottom of the list. A failed cache warm is
// logged and the entry is still written.
func (s *ListService) AddToList(ctx context.Context, userID, listID uuid.UUID, ref models.MediaRef) (*models.ListEntry, error) {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return nil, err
	}

	if err := s.cache.Ensure(ctx, ref); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("kind", string(ref.Kind)).Int64("tmdb_id", ref.ID).
			Msg("media cache warm failed")
	}

	movieID, seriesID := ref.Columns()
	entry := &models.ListEntry{ListID: listID, MovieID: movieID, SeriesID: seriesID}
	if err := s.lists.AddEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ListService) RemoveFromList(ctx context.Context, userID, listID, entryID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	return s.lists.DeleteEntry(ctx, listID, entryID)
}

func (s *ListService) UpdateEntryNote(ctx context.Context, userID, listID, entryID uuid.UUID, note string) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	var notePtr *string
	if n := strings.TrimSpace(note); n != "" {
		notePtr = &n
	}
	return s.lists.UpdateEntryNote(ctx, listID, entryID, notePtr)
}

// ReorderEntries rewrites ranks to 1..n in the order of entryIDs, which must
// name every entry of the list exactly once.
func (s *ListService) ReorderEntries(ctx context.Context, userID, listID uuid.UUID, entryIDs []uuid.UUID) error {
	if _, err := s.owned(ctx, userID, listID); err != nil {
		return err
	}
	return s.lists.ReorderEntries(ctx, listID, entryIDs)
}

func (s *ListService) owned(ctx context.Context, userID, listID uuid.UUID) (*models.List, error) {
	list, err := s.lists.GetListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	if list.UserID != userID {
		return nil, ErrForbidden
	}
	return list, nil
}
