package catalog

import (
	"context"

	"moviehub/internal/movie"
)

// MetadataAPI is the slice of the metadata client the catalog service uses.
type MetadataAPI interface {
	Trending(ctx context.Context) ([]movie.Movie, error)
	TopRated(ctx context.Context, page int) ([]movie.Movie, error)
	Upcoming(ctx context.Context, page int) ([]movie.Movie, error)
	NowPlaying(ctx context.Context, page int) ([]movie.Movie, error)
	Search(ctx context.Context, query string, page int) ([]movie.Movie, error)
	Discover(ctx context.Context, q movie.DiscoverQuery) ([]movie.Movie, error)
	Details(ctx context.Context, id int) (movie.Details, error)
	Credits(ctx context.Context, id int) (movie.Credits, error)
	Reviews(ctx context.Context, id int) (movie.Reviews, error)
	Videos(ctx context.Context, id int) ([]movie.Video, error)
	Images(ctx context.Context, id int) (movie.Images, error)
	Similar(ctx context.Context, id int) ([]movie.Movie, error)
	Recommendations(ctx context.Context, id int) ([]movie.Movie, error)
	Genres(ctx context.Context) ([]movie.Genre, error)
}
