package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedItem is a movie or series bookmarked by a user
type SavedItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_saved_user_media"`
	MovieID   *int64    `json:"movie_id" gorm:"uniqueIndex:idx_saved_user_media"`
	SeriesID  *int64    `json:"series_id" gorm:"uniqueIndex:idx_saved_user_media"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SavedItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SaveItemRequest struct {
	MediaType string `json:"media_type" validate:"required,oneof=movie tv series"`
	TMDBID    int64  `json:"tmdb_id" validate:"required,gt=0"`
}
