package tmdb

import (
	"fmt"
	"net/url"
	"strconv"

	"moviehub/internal/movie"
)

const (
	// DefaultBaseURL is the metadata service API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultLanguage is sent with every request.
	DefaultLanguage = "en-US"

	imageBaseURL = "https://image.tmdb.org/t/p"

	// PlaceholderImage is returned in place of an asset URL when a record
	// has no poster/backdrop path, so callers never build a malformed URL.
	PlaceholderImage = "/placeholder-poster.svg"
)

// Poster size tokens understood by the image CDN.
const (
	PosterSmall    = "w185"
	PosterMedium   = "w342"
	PosterLarge    = "w500"
	PosterOriginal = "original"
)

// Backdrop size tokens understood by the image CDN.
const (
	BackdropSmall    = "w300"
	BackdropMedium   = "w780"
	BackdropLarge    = "w1280"
	BackdropOriginal = "original"
)

// Endpoints builds fully-qualified request URLs for every metadata
// resource. It is pure: no I/O, no mutable state. Free-text parameters are
// URL-encoded and empty filters are omitted so the service only receives
// explicitly set ones.
type Endpoints struct {
	BaseURL  string
	APIKey   string
	Language string
}

// NewEndpoints creates an endpoint registry. Empty baseURL/language fall
// back to the defaults.
func NewEndpoints(baseURL, apiKey, language string) *Endpoints {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == "" {
		language = DefaultLanguage
	}
	return &Endpoints{BaseURL: baseURL, APIKey: apiKey, Language: language}
}

func (e *Endpoints) common() url.Values {
	params := url.Values{}
	params.Set("api_key", e.APIKey)
	params.Set("language", e.Language)
	return params
}

func (e *Endpoints) build(path string, params url.Values) string {
	return fmt.Sprintf("%s%s?%s", e.BaseURL, path, params.Encode())
}

func (e *Endpoints) paged(path string, page int) string {
	params := e.common()
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return e.build(path, params)
}

// Trending is the weekly trending movie list.
func (e *Endpoints) Trending() string {
	return e.build("/trending/movie/week", e.common())
}

func (e *Endpoints) TopRated(page int) string {
	return e.paged("/movie/top_rated", page)
}

func (e *Endpoints) Upcoming(page int) string {
	return e.paged("/movie/upcoming", page)
}

func (e *Endpoints) NowPlaying(page int) string {
	return e.paged("/movie/now_playing", page)
}

// Search builds a free-text movie search. The query is URL-encoded.
func (e *Endpoints) Search(query string, page int) string {
	params := e.common()
	params.Set("query", query)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	return e.build("/search/movie", params)
}

func (e *Endpoints) Details(id int) string {
	return e.build(fmt.Sprintf("/movie/%d", id), e.common())
}

func (e *Endpoints) Credits(id int) string {
	return e.build(fmt.Sprintf("/movie/%d/credits", id), e.common())
}

func (e *Endpoints) Reviews(id int) string {
	return e.build(fmt.Sprintf("/movie/%d/reviews", id), e.common())
}

func (e *Endpoints) Videos(id int) string {
	return e.build(fmt.Sprintf("/movie/%d/videos", id), e.common())
}

func (e *Endpoints) Images(id int) string {
	// Image records carry no text to localize; sending a language filter
	// would hide most posters.
	params := url.Values{}
	params.Set("api_key", e.APIKey)
	return e.build(fmt.Sprintf("/movie/%d/images", id), params)
}

func (e *Endpoints) Similar(id int) string {
	return e.build(fmt.Sprintf("/movie/%d/similar", id), e.common())
}

func (e *Endpoints) Recommendations(id int) string {
	return e.build(fmt.Sprintf("/movie/%d/recommendations", id), e.common())
}

// GenreList is the id→name genre catalogue.
func (e *Endpoints) GenreList() string {
	return e.build("/genre/movie/list", e.common())
}

// Discover builds a filtered discovery query. Zero-valued filters are
// omitted; defaulting of sort and page is the catalog service's job.
func (e *Endpoints) Discover(q movie.DiscoverQuery) string {
	params := e.common()
	if q.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(q.GenreID))
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	if q.Year > 0 {
		params.Set("year", strconv.Itoa(q.Year))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	params.Set("include_adult", "false")
	params.Set("include_video", "false")
	return e.build("/discover/movie", params)
}

// PosterURL derives the CDN URL for a poster path at the given size token.
// A missing path yields PlaceholderImage.
func PosterURL(path, size string) string {
	if path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = PosterMedium
	}
	return fmt.Sprintf("%s/%s%s", imageBaseURL, size, path)
}

// BackdropURL derives the CDN URL for a backdrop path at the given size
// token. A missing path yields PlaceholderImage.
func BackdropURL(path, size string) string {
	if path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = BackdropLarge
	}
	return fmt.Sprintf("%s/%s%s", imageBaseURL, size, path)
}

// YouTubeURL derives the watch URL for a video key.
func YouTubeURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(key)
}

// YouTubeEmbedURL derives the embed URL for a video key.
func YouTubeEmbedURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + url.PathEscape(key)
}
