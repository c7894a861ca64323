// Package catalog exposes one operation per logical catalog query. Every
// operation resolves to a value: fetch failures are logged and collapsed
// into empty results, so view code branches on "empty" instead of handling
// errors. The error classification stays visible in the access layer's
// types; discarding it here is a deliberate, documented policy.
package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"moviehub/internal/movie"
)

const (
	// upcomingPages is how many pages the upcoming fan-out fetches.
	upcomingPages = 3

	defaultSort = "popularity.desc"

	releaseDateLayout = "2006-01-02"
)

// Service is the catalog query layer. Safe for concurrent use.
type Service struct {
	api MetadataAPI
	log zerolog.Logger

	// now is the clock for the coming-soon filter; injectable in tests.
	now func() time.Time
}

// NewService creates a catalog service over the given metadata client.
func NewService(api MetadataAPI, log zerolog.Logger) *Service {
	return &Service{
		api: api,
		log: log.With().Str("component", "catalog").Logger(),
		now: time.Now,
	}
}

// collapse logs a fetch failure and reports whether one happened. The empty
// value the caller returns instead is the degraded-mode contract.
func (s *Service) collapse(op string, err error) bool {
	if err == nil {
		return false
	}
	s.log.Warn().Err(err).Str("op", op).Msg("catalog fetch failed, degrading to empty result")
	return true
}

// Trending returns this week's trending movies, or empty on failure.
func (s *Service) Trending(ctx context.Context) []movie.Movie {
	movies, err := s.api.Trending(ctx)
	if s.collapse("trending", err) {
		return nil
	}
	return movies
}

// TopRated returns the first top-rated page, or empty on failure.
func (s *Service) TopRated(ctx context.Context) []movie.Movie {
	movies, err := s.api.TopRated(ctx, 1)
	if s.collapse("top_rated", err) {
		return nil
	}
	return movies
}

// NowPlaying returns movies currently in theatres, or empty on failure.
func (s *Service) NowPlaying(ctx context.Context) []movie.Movie {
	movies, err := s.api.NowPlaying(ctx, 1)
	if s.collapse("now_playing", err) {
		return nil
	}
	return movies
}

// Upcoming fetches the first three upcoming pages concurrently and
// concatenates them in page order. Degradation is permissive: a page that
// fails after retries contributes an empty slice instead of aborting the
// whole merge.
func (s *Service) Upcoming(ctx context.Context) []movie.Movie {
	pages := make([][]movie.Movie, upcomingPages)

	var wg sync.WaitGroup
	for i := 0; i < upcomingPages; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			movies, err := s.api.Upcoming(ctx, i+1)
			if err != nil {
				s.log.Warn().Err(err).Int("page", i+1).Msg("upcoming page failed, contributing empty slice")
				return
			}
			pages[i] = movies
		}(i)
	}
	wg.Wait()

	var merged []movie.Movie
	for _, page := range pages {
		merged = append(merged, page...)
	}
	return merged
}

// ComingSoon filters Upcoming down to releases strictly after the current
// moment, ascending by release date. Pure post-processing over fetched
// data; entries with unparsable release dates are dropped.
func (s *Service) ComingSoon(ctx context.Context) []movie.Movie {
	now := s.now()

	type dated struct {
		movie   movie.Movie
		release time.Time
	}
	var future []dated
	for _, m := range s.Upcoming(ctx) {
		release, err := time.Parse(releaseDateLayout, m.ReleaseDate)
		if err != nil {
			continue
		}
		if release.After(now) {
			future = append(future, dated{movie: m, release: release})
		}
	}

	sort.SliceStable(future, func(i, j int) bool {
		return future[i].release.Before(future[j].release)
	})

	result := make([]movie.Movie, len(future))
	for i, d := range future {
		result[i] = d.movie
	}
	return result
}

// Search returns free-text search results, or empty on failure.
func (s *Service) Search(ctx context.Context, query string) []movie.Movie {
	movies, err := s.api.Search(ctx, query, 1)
	if s.collapse("search", err) {
		return nil
	}
	return movies
}

// Discover returns filtered discovery results. Absent sort and page are
// defaulted (descending popularity, page 1); other filters pass through
// unmodified.
func (s *Service) Discover(ctx context.Context, q movie.DiscoverQuery) []movie.Movie {
	if q.SortBy == "" {
		q.SortBy = defaultSort
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	movies, err := s.api.Discover(ctx, q)
	if s.collapse("discover", err) {
		return nil
	}
	return movies
}

// Details fetches core details, credits and reviews concurrently and merges
// them into one record. A failing sub-call degrades its sub-field to the
// zero value; a failing core call degrades the whole record. Assembly into
// the named fields is deterministic regardless of completion order.
func (s *Service) Details(ctx context.Context, id int) movie.Details {
	var (
		details    movie.Details
		credits    movie.Credits
		reviews    movie.Reviews
		detailsErr error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		details, detailsErr = s.api.Details(ctx, id)
	}()
	go func() {
		defer wg.Done()
		var err error
		credits, err = s.api.Credits(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int("movie_id", id).Msg("credits fetch failed, degrading to empty")
			credits = movie.Credits{}
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		reviews, err = s.api.Reviews(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Int("movie_id", id).Msg("reviews fetch failed, degrading to empty")
			reviews = movie.Reviews{}
		}
	}()
	wg.Wait()

	if s.collapse("details", detailsErr) {
		return movie.Details{}
	}
	details.Credits = credits
	details.Reviews = reviews
	return details
}

// Videos returns the trailers for a movie, or empty on failure.
func (s *Service) Videos(ctx context.Context, id int) []movie.Video {
	videos, err := s.api.Videos(ctx, id)
	if s.collapse("videos", err) {
		return nil
	}
	return videos
}

// Images returns the poster/backdrop collections, or empty on failure.
func (s *Service) Images(ctx context.Context, id int) movie.Images {
	images, err := s.api.Images(ctx, id)
	if s.collapse("images", err) {
		return movie.Images{}
	}
	return images
}

// Similar returns similar movies, or empty on failure.
func (s *Service) Similar(ctx context.Context, id int) []movie.Movie {
	movies, err := s.api.Similar(ctx, id)
	if s.collapse("similar", err) {
		return nil
	}
	return movies
}

// Recommendations returns recommended movies, or empty on failure.
func (s *Service) Recommendations(ctx context.Context, id int) []movie.Movie {
	movies, err := s.api.Recommendations(ctx, id)
	if s.collapse("recommendations", err) {
		return nil
	}
	return movies
}

// Genres returns the remote genre catalogue, or empty on failure. For
// resolving individual IDs without a network call, see movie.GenreName.
func (s *Service) Genres(ctx context.Context) []movie.Genre {
	genres, err := s.api.Genres(ctx)
	if s.collapse("genres", err) {
		return nil
	}
	return genres
}
