package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimelineEntry is one logged viewing of a movie or series. Exactly one of
// MovieID and SeriesID is set.
type TimelineEntry struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;index:idx_timeline_user_watched,priority:1"`
	MovieID        *int64    `json:"movie_id" gorm:"index"`
	SeriesID       *int64    `json:"series_id" gorm:"index"`
	WatchedOn      time.Time `json:"watched_on" gorm:"type:date;index:idx_timeline_user_watched,priority:2"`
	Rating         *float64  `json:"rating"`
	Notes          *string   `json:"notes"`
	IsRewatch      bool      `json:"is_rewatch"`
	ViewingContext *string   `json:"viewing_context"`
	PostID         *string   `json:"post_id"` // hex ObjectID of a linked review post
	CreatedAt      time.Time `json:"created_at"`
}

func (e *TimelineEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *TimelineEntry) Ref() (MediaRef, bool) {
	return RefFromColumns(e.MovieID, e.SeriesID)
}

// Viewing mediums accepted by LogWatchRequest.
const (
	ViewingTheatre = "theatre"
	ViewingOTT     = "ott"
)

type LogWatchRequest struct {
	MediaType     string  `json:"media_type" validate:"required,oneof=movie tv series"`
	TMDBID        int64   `json:"tmdb_id" validate:"required,gt=0"`
	WatchedOn     string  `json:"watched_on" validate:"required,datetime=2006-01-02"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	Notes         string  `json:"notes" validate:"max=1000"`
	ViewingMedium string  `json:"viewing_medium,omitempty" validate:"omitempty,oneof=theatre ott"`
	OTTPlatform   string  `json:"ott_platform,omitempty" validate:"max=50"`
	PostID        string  `json:"post_id,omitempty" validate:"omitempty,mongodb"`
}
