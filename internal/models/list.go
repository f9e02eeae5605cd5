package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// List is a user-curated ranked collection of movies and series
type List struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Title       string    `json:"title" gorm:"size:100"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`

	Entries []ListEntry `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (l *List) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ListEntry is one ranked row of a list. Exactly one of MovieID and SeriesID
// is set; use Ref to read it.
type ListEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ListID    uuid.UUID `json:"list_id" gorm:"type:uuid;uniqueIndex:idx_list_entries_list_rank"`
	Rank      int       `json:"rank" gorm:"uniqueIndex:idx_list_entries_list_rank"`
	Note      *string   `json:"note"`
	MovieID   *int64    `json:"movie_id"`
	SeriesID  *int64    `json:"series_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ListEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *ListEntry) Ref() (MediaRef, bool) {
	return RefFromColumns(e.MovieID, e.SeriesID)
}

type CreateListRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsPublic    *bool  `json:"is_public,omitempty"`
}

type AddListEntryRequest struct {
	MediaType string `json:"media_type" validate:"required,oneof=movie tv series"`
	TMDBID    int64  `json:"tmdb_id" validate:"required,gt=0"`
}

type UpdateEntryNoteRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type ReorderEntriesRequest struct {
	EntryIDs []string `json:"entry_ids" validate:"required,min=1,unique,dive,uuid"`
}
