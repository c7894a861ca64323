// Package tmdb talks to the third-party movie metadata service. It builds
// request URLs through the endpoint registry and issues them through the
// shared access layer, decoding responses into internal/movie types. Errors
// keep their access-layer classification; collapsing failures into empty
// results is the catalog service's decision, one layer up.
package tmdb

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"moviehub/internal/movie"
	"moviehub/internal/platform/rest"
)

// Config configures the metadata client.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	// RequestsPerSecond throttles outgoing calls; 0 means 4 rps.
	RequestsPerSecond int
	HTTP              rest.Config
}

// Client is a typed client for the metadata service. Safe for concurrent use.
type Client struct {
	endpoints *Endpoints
	rest      *rest.Client
	limiter   *rate.Limiter
}

// NewClient creates a metadata client from cfg.
func NewClient(cfg Config) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	return &Client{
		endpoints: NewEndpoints(cfg.BaseURL, cfg.APIKey, cfg.Language),
		rest:      rest.NewClient(cfg.HTTP),
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// Endpoints exposes the registry for URL derivation (image assets, links).
func (c *Client) Endpoints() *Endpoints { return c.endpoints }

// moviePage matches the paginated {results: [...]} collection shape.
type moviePage struct {
	Page         int           `json:"page"`
	Results      []movie.Movie `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type videoList struct {
	Results []movie.Video `json:"results"`
}

type genreList struct {
	Genres []movie.Genre `json:"genres"`
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.rest.GetJSON(ctx, url, target)
}

func (c *Client) getMovies(ctx context.Context, url string) ([]movie.Movie, error) {
	var page moviePage
	if err := c.get(ctx, url, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Trending returns this week's trending movies.
func (c *Client) Trending(ctx context.Context) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.Trending())
}

// TopRated returns one page of the top-rated list.
func (c *Client) TopRated(ctx context.Context, page int) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.TopRated(page))
}

// Upcoming returns one page of upcoming releases.
func (c *Client) Upcoming(ctx context.Context, page int) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.Upcoming(page))
}

// NowPlaying returns one page of movies currently in theatres.
func (c *Client) NowPlaying(ctx context.Context, page int) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.NowPlaying(page))
}

// Search returns one page of free-text search results.
func (c *Client) Search(ctx context.Context, query string, page int) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.Search(query, page))
}

// Discover returns one page of filtered discovery results.
func (c *Client) Discover(ctx context.Context, q movie.DiscoverQuery) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.Discover(q))
}

// Details returns the core detail record for one movie. Credits and reviews
// are separate calls; the catalog service assembles the composite.
func (c *Client) Details(ctx context.Context, id int) (movie.Details, error) {
	var details movie.Details
	if err := c.get(ctx, c.endpoints.Details(id), &details); err != nil {
		return movie.Details{}, err
	}
	return details, nil
}

// Credits returns the cast and crew lists for one movie.
func (c *Client) Credits(ctx context.Context, id int) (movie.Credits, error) {
	var credits movie.Credits
	if err := c.get(ctx, c.endpoints.Credits(id), &credits); err != nil {
		return movie.Credits{}, err
	}
	return credits, nil
}

// Reviews returns the review collection for one movie.
func (c *Client) Reviews(ctx context.Context, id int) (movie.Reviews, error) {
	var reviews movie.Reviews
	if err := c.get(ctx, c.endpoints.Reviews(id), &reviews); err != nil {
		return movie.Reviews{}, err
	}
	return reviews, nil
}

// Videos returns the trailers/teasers attached to one movie.
func (c *Client) Videos(ctx context.Context, id int) ([]movie.Video, error) {
	var videos videoList
	if err := c.get(ctx, c.endpoints.Videos(id), &videos); err != nil {
		return nil, err
	}
	return videos.Results, nil
}

// Images returns the poster and backdrop collections for one movie.
func (c *Client) Images(ctx context.Context, id int) (movie.Images, error) {
	var images movie.Images
	if err := c.get(ctx, c.endpoints.Images(id), &images); err != nil {
		return movie.Images{}, err
	}
	return images, nil
}

// Similar returns movies similar to the given one.
func (c *Client) Similar(ctx context.Context, id int) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.Similar(id))
}

// Recommendations returns recommendations derived from the given movie.
func (c *Client) Recommendations(ctx context.Context, id int) ([]movie.Movie, error) {
	return c.getMovies(ctx, c.endpoints.Recommendations(id))
}

// Genres returns the remote genre catalogue.
func (c *Client) Genres(ctx context.Context) ([]movie.Genre, error) {
	var genres genreList
	if err := c.get(ctx, c.endpoints.GenreList(), &genres); err != nil {
		return nil, err
	}
	return genres.Genres, nil
}
