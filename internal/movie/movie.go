package movie

import (
	"errors"
)

// ErrNotFound is returned when a movie is not found.
var ErrNotFound = errors.New("movie not found")

// Movie represents a single movie record as returned by the metadata service.
// Fields are a pass-through of the remote shape; the client consumes only a
// subset but keeps the rest intact so callers can persist a full copy.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// Genre is one entry of the remote genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Video is a trailer/teaser/clip attached to a movie.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// CastMember is one credited actor.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is one credited crew role.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job,omitempty"`
	Department string `json:"department,omitempty"`
}

// Credits holds the cast and crew lists for a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Review is one user review of a movie.
type Review struct {
	ID        string  `json:"id"`
	Author    string  `json:"author"`
	Content   string  `json:"content"`
	Rating    float64 `json:"rating,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	URL       string  `json:"url,omitempty"`
}

// Reviews is the paginated review collection for a movie.
type Reviews struct {
	Results      []Review `json:"results"`
	TotalResults int      `json:"total_results"`
}

// Details is the composite detail record: the core movie fields plus
// credits and reviews assembled from separate endpoint calls.
type Details struct {
	Movie
	Runtime int     `json:"runtime"`
	Tagline string  `json:"tagline,omitempty"`
	Status  string  `json:"status,omitempty"`
	Genres  []Genre `json:"genres,omitempty"`
	Credits Credits `json:"credits"`
	Reviews Reviews `json:"reviews"`
}

// Image is one poster or backdrop variant.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	VoteAverage float64 `json:"vote_average"`
}

// Images holds the poster and backdrop collections for a movie.
type Images struct {
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
}

// DiscoverQuery defines filters for the discover endpoint. Zero-valued
// fields are omitted from the request; absent sort/page get defaulted by
// the catalog service.
type DiscoverQuery struct {
	GenreID int
	SortBy  string
	Year    int
	Page    int
}
