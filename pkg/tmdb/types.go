package tmdb

import "strings"

const (
	posterBase   = "https://image.tmdb.org/t/p/w500"
	backdropBase = "https://image.tmdb.org/t/p/original"
)

// Genre is a TMDB genre reference.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Details is the subset of the movie and tv detail payloads the service caches.
// Movies carry Title/ReleaseDate, series carry Name/FirstAirDate.
type Details struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	Genres       []Genre `json:"genres"`
}

// DisplayTitle prefers the movie title and falls back to the series name.
func (d *Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	if d.Name != "" {
		return d.Name
	}
	return "Unknown"
}

// Date returns the release date for movies or the first air date for series.
func (d *Details) Date() string {
	if d.ReleaseDate != "" {
		return d.ReleaseDate
	}
	return d.FirstAirDate
}

func (d *Details) PosterURL() string   { return ImageURL(posterBase, d.PosterPath) }
func (d *Details) BackdropURL() string { return ImageURL(backdropBase, d.BackdropPath) }

// GenreNames flattens Genres into a comma separated string.
func (d *Details) GenreNames() string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// ImageURL joins an image base with a TMDB path. Absolute URLs pass through and
// an empty path yields "".
func ImageURL(base, path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http"):
		return path
	default:
		return base + path
	}
}

// SearchResult is one row of a multi search.
type SearchResult struct {
	ID           int64  `json:"id"`
	MediaType    string `json:"media_type"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	ProfilePath  string `json:"profile_path"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}
