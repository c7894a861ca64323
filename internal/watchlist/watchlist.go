// Package watchlist holds the user's saved-movie set, ordered by most
// recently added. The in-memory collection is the source of truth for the
// running session; every mutation re-persists the whole collection to
// durable storage on a best-effort basis.
package watchlist

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"moviehub/internal/movie"
)

const storageKey = "watchlist"

// Storage is the durable key-value slice the store persists into.
type Storage interface {
	GetJSON(key string, v any) (bool, error)
	PutJSON(key string, v any) error
}

// Entry is a saved movie plus the moment it was added. EntryID is a
// synthetic identifier distinct from the movie ID, so future
// duplicate-movie scenarios stay representable.
type Entry struct {
	movie.Movie
	EntryID string    `json:"watchlist_id"`
	AddedAt time.Time `json:"added_at"`
}

// Store is the watchlist store. Safe for concurrent use.
type Store struct {
	kv  Storage
	log zerolog.Logger

	// clock and ID source, injectable in tests.
	now   func() time.Time
	newID func() string

	mu      sync.RWMutex
	entries []Entry
}

// NewStore creates the store and rehydrates the collection from durable
// storage. An unreadable stored collection starts the store empty.
func NewStore(kv Storage, log zerolog.Logger) *Store {
	s := &Store{
		kv:    kv,
		log:   log.With().Str("component", "watchlist").Logger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	if _, err := kv.GetJSON(storageKey, &s.entries); err != nil {
		s.log.Warn().Err(err).Msg("stored watchlist unreadable, starting empty")
		s.entries = nil
	}
	s.sortLocked()
	return s
}

// persist writes the whole collection; failures are logged, never rolled
// back and never propagated.
func (s *Store) persist() {
	if err := s.kv.PutJSON(storageKey, s.entries); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist watchlist")
	}
}

// sortLocked orders entries most-recently-added first. Stable, so entries
// sharing a timestamp keep their relative order.
func (s *Store) sortLocked() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].AddedAt.After(s.entries[j].AddedAt)
	})
}

// Add saves a movie. Adding a movie that is already present is a no-op.
func (s *Store) Add(m movie.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == m.ID {
			return
		}
	}
	entry := Entry{Movie: m, EntryID: s.newID(), AddedAt: s.now()}
	s.entries = append([]Entry{entry}, s.entries...)
	s.sortLocked()
	s.persist()
}

// Remove drops a movie. Removing an absent movie is a no-op.
func (s *Store) Remove(movieID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == movieID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.persist()
			return
		}
	}
}

// Contains reports whether a movie is saved.
func (s *Store) Contains(movieID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == movieID {
			return true
		}
	}
	return false
}

// Clear empties the collection. Confirmation prompts are the caller's job.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.persist()
}

// PromoteToMostRecent refreshes a saved movie's AddedAt so it sorts first.
// Unknown movie IDs are a no-op.
func (s *Store) PromoteToMostRecent(movieID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == movieID {
			s.entries[i].AddedAt = s.now()
			entry := s.entries[i]
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.entries = append([]Entry{entry}, s.entries...)
			s.persist()
			return
		}
	}
}

// List returns a copy of the collection, most recently added first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of saved movies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
