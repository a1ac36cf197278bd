package catalog

import (
	"strings"

	"github.com/vmunix/sparkred/internal/tmdb"
)

const (
	posterBaseURL   = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/original"

	// PlaceholderImage is used when a movie has no poster.
	PlaceholderImage = "/file.svg"

	// UnknownYear is the year of a movie without a release date.
	UnknownYear = "N/A"

	// MaxCast is the number of billed cast names kept in a Movie.
	MaxCast = 8
)

// Summary is the abbreviated movie record returned by searches.
type Summary struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Desc   string  `json:"desc"`
	Img    string  `json:"img"`
	Rating float64 `json:"rating"`
	Year   string  `json:"year"`
}

// Movie is the full movie record.
type Movie struct {
	Summary
	Backdrop *string  `json:"backdrop"`
	Runtime  *int     `json:"runtime"`
	Genres   []string `json:"genres"`
	Cast     []string `json:"cast"`
}

func summaryFromResult(r tmdb.SearchResult) Summary {
	return Summary{
		ID:     r.ID,
		Title:  r.Title,
		Desc:   r.Overview,
		Img:    posterURL(r.PosterPath),
		Rating: r.VoteAverage,
		Year:   releaseYear(r.ReleaseDate),
	}
}

func movieFromDetail(m *tmdb.Movie) *Movie {
	out := &Movie{
		Summary: Summary{
			ID:     m.ID,
			Title:  m.Title,
			Desc:   m.Overview,
			Img:    posterURL(m.PosterPath),
			Rating: m.VoteAverage,
			Year:   releaseYear(m.ReleaseDate),
		},
		Runtime: m.Runtime,
		Genres:  make([]string, 0, len(m.Genres)),
		Cast:    make([]string, 0, min(len(m.Credits.Cast), MaxCast)),
	}
	if m.BackdropPath != "" {
		backdrop := backdropBaseURL + m.BackdropPath
		out.Backdrop = &backdrop
	}
	for _, g := range m.Genres {
		out.Genres = append(out.Genres, g.Name)
	}
	for i, c := range m.Credits.Cast {
		if i == MaxCast {
			break
		}
		out.Cast = append(out.Cast, c.Name)
	}
	return out
}

func posterURL(path string) string {
	if path == "" {
		return PlaceholderImage
	}
	return posterBaseURL + path
}

// releaseYear returns the year part of a "2006-01-02" date.
func releaseYear(date string) string {
	if date == "" {
		return UnknownYear
	}
	year, _, _ := strings.Cut(date, "-")
	if year == "" {
		return UnknownYear
	}
	return year
}
