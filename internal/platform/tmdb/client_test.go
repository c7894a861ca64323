package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviehub/internal/platform/rest"
)

func newTestServerClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:            "test-key",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		HTTP: rest.Config{
			Timeout:     time.Second,
			MaxAttempts: 1,
			RetryDelay:  time.Millisecond,
		},
	})
}

func TestClient_Trending(t *testing.T) {
	c := newTestServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/movie/week", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"page":1,"results":[
			{"id":603,"title":"The Matrix","vote_average":8.2,"genre_ids":[28,878]},
			{"id":604,"title":"The Matrix Reloaded","vote_average":7.0}
		]}`))
	})

	movies, err := c.Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, 603, movies[0].ID)
	assert.Equal(t, "The Matrix", movies[0].Title)
	assert.Equal(t, []int{28, 878}, movies[0].GenreIDs)
}

func TestClient_Details(t *testing.T) {
	c := newTestServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,"tagline":"Welcome to the Real World",
			"genres":[{"id":28,"name":"Action"}]}`))
	})

	details, err := c.Details(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, 603, details.ID)
	assert.Equal(t, 136, details.Runtime)
	require.Len(t, details.Genres, 1)
	assert.Equal(t, "Action", details.Genres[0].Name)
}

func TestClient_Videos(t *testing.T) {
	c := newTestServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":"v1","key":"abc","name":"Trailer","site":"YouTube","type":"Trailer","official":true}]}`))
	})

	videos, err := c.Videos(context.Background(), 603)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "abc", videos[0].Key)
	assert.True(t, videos[0].Official)
}

func TestClient_Genres(t *testing.T) {
	c := newTestServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
	})

	genres, err := c.Genres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Comedy", genres[1].Name)
}

func TestClient_NotFoundKeepsClassification(t *testing.T) {
	c := newTestServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"not found"}`))
	})

	_, err := c.Details(context.Background(), 999999)
	require.Error(t, err)
	assert.False(t, rest.IsTransient(err))

	var ce *rest.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "not found", ce.Message)
}

func TestClient_EmptyResults(t *testing.T) {
	c := newTestServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[]}`))
	})

	movies, err := c.Search(context.Background(), "no such movie", 1)
	require.NoError(t, err)
	assert.Empty(t, movies)
}
