package models

import "time"

// MediaKind discriminates the two media namespaces. A movie id and a series id
// with the same value are unrelated.
type MediaKind string

const (
	MediaMovie  MediaKind = "movie"
	MediaSeries MediaKind = "series"
)

// ParseMediaKind accepts the route spellings "movie", "tv" and "series".
func ParseMediaKind(s string) (MediaKind, bool) {
	switch s {
	case "movie":
		return MediaMovie, true
	case "tv", "series":
		return MediaSeries, true
	default:
		return "", false
	}
}

// MediaRef is a reference to exactly one movie or series.
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	ID   int64     `json:"id"`
}

// RefFromColumns converts the nullable movie_id/series_id storage pair. ok is
// false when neither (or both) columns are set.
func RefFromColumns(movieID, seriesID *int64) (MediaRef, bool) {
	switch {
	case movieID != nil && seriesID == nil:
		return MediaRef{Kind: MediaMovie, ID: *movieID}, true
	case seriesID != nil && movieID == nil:
		return MediaRef{Kind: MediaSeries, ID: *seriesID}, true
	default:
		return MediaRef{}, false
	}
}

// Columns is the inverse of RefFromColumns.
func (r MediaRef) Columns() (movieID, seriesID *int64) {
	id := r.ID
	if r.Kind == MediaMovie {
		return &id, nil
	}
	return nil, &id
}

// MediaRecord holds the cached TMDB metadata shared by the movies and series tables.
type MediaRecord struct {
	TMDBID      int64     `json:"tmdb_id" gorm:"primaryKey;autoIncrement:false"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"poster_url"`
	BackdropURL string    `json:"backdrop_url"`
	ReleaseDate string    `json:"release_date" gorm:"size:10"`
	Overview    string    `json:"overview"`
	Genres      string    `json:"genres"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Movie struct {
	MediaRecord
}

func (Movie) TableName() string { return "movies" }

type Series struct {
	MediaRecord
}

func (Series) TableName() string { return "series" }
