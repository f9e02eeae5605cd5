package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section types restrict which media a profile section may hold.
const (
	SectionMixed  = "mixed"
	SectionMovie  = "movie"
	SectionSeries = "tv"
)

// MaxSectionItems caps a profile section ("Top 3", "Top 10" and so on).
const MaxSectionItems = 10

// ProfileSection is a ranked showcase on a profile, e.g. "Top 3 films".
type ProfileSection struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_profile_sections_user_rank"`
	Title     string    `json:"title" gorm:"size:60"`
	Type      string    `json:"type" gorm:"size:10;default:mixed"`
	Rank      int       `json:"rank" gorm:"uniqueIndex:idx_profile_sections_user_rank"`
	CreatedAt time.Time `json:"created_at"`

	Items []SectionItem `json:"-" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

func (s *ProfileSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Accepts reports whether kind may be placed in a section of this type.
func (s *ProfileSection) Accepts(kind MediaKind) bool {
	switch s.Type {
	case SectionMovie:
		return kind == MediaMovie
	case SectionSeries:
		return kind == MediaSeries
	default:
		return true
	}
}

// SectionItem is one ranked slot of a ProfileSection.
type SectionItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SectionID uuid.UUID `json:"section_id" gorm:"type:uuid;uniqueIndex:idx_section_items_section_rank"`
	Rank      int       `json:"rank" gorm:"uniqueIndex:idx_section_items_section_rank"`
	MovieID   *int64    `json:"movie_id"`
	SeriesID  *int64    `json:"series_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *SectionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *SectionItem) Ref() (MediaRef, bool) {
	return RefFromColumns(i.MovieID, i.SeriesID)
}

type CreateSectionRequest struct {
	Title string `json:"title" validate:"required,min=1,max=60"`
	Type  string `json:"type" validate:"omitempty,oneof=mixed movie tv"`
}

type SectionItemInput struct {
	MediaType string `json:"media_type" validate:"required,oneof=movie tv series"`
	TMDBID    int64  `json:"tmdb_id" validate:"required,gt=0"`
}

type SetSectionItemsRequest struct {
	Items []SectionItemInput `json:"items" validate:"max=10,dive"`
}
