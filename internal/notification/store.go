// Package notification holds the informational message feed, newest first.
// Like the other persisted stores, in-memory state is authoritative and
// every mutation re-persists the whole feed on a best-effort basis.
package notification

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const storageKey = "notifications"

// Storage is the durable key-value slice the store persists into.
type Storage interface {
	GetJSON(key string, v any) (bool, error)
	PutJSON(key string, v any) error
}

// seedFeed is the fixed first-run feed, so a fresh install has something
// to show instead of an empty panel.
func seedFeed() []Notification {
	return []Notification{
		{
			ID:      "seed-1",
			Type:    TypeNew,
			Title:   "New Release",
			Message: `The latest blockbuster "Oppenheimer" is now available!`,
			Time:    "2 hours ago",
			Link:    "/movie/872585",
		},
		{
			ID:      "seed-2",
			Type:    TypeRecommendation,
			Title:   "Recommended for You",
			Message: `Based on your watchlist: "Barbie"`,
			Time:    "5 hours ago",
			Link:    "/movie/346698",
		},
		{
			ID:      "seed-3",
			Type:    TypeUpcoming,
			Title:   "Coming Soon",
			Message: `New trailer released for "Dune: Part Two"`,
			Time:    "1 day ago",
			Link:    "/movie/693134",
		},
	}
}

// Store is the notification store. Safe for concurrent use.
type Store struct {
	kv  Storage
	log zerolog.Logger

	// ID source, injectable in tests.
	newID func() string

	mu   sync.RWMutex
	feed []Notification
}

// NewStore creates the store and rehydrates the feed. When no durable
// record exists yet (first run) the feed is seeded with starter entries;
// an unreadable record starts the store empty instead.
func NewStore(kv Storage, log zerolog.Logger) *Store {
	s := &Store{
		kv:    kv,
		log:   log.With().Str("component", "notification").Logger(),
		newID: uuid.NewString,
	}
	found, err := kv.GetJSON(storageKey, &s.feed)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("stored notifications unreadable, starting empty")
		s.feed = nil
	case !found:
		s.feed = seedFeed()
		s.persist()
	}
	return s
}

func (s *Store) persist() {
	if err := s.kv.PutJSON(storageKey, s.feed); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist notifications")
	}
}

// Add prepends a notification, filling in the ID, unread state, display
// time and link when the caller omits them. The assigned ID is returned.
func (s *Store) Add(n Notification) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.Time == "" {
		n.Time = "Just now"
	}
	if n.Link == "" {
		n.Link = "#"
	}
	n.Read = false
	s.feed = append([]Notification{n}, s.feed...)
	s.persist()
	return n.ID
}

// Remove drops one notification. Unknown IDs are a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.feed {
		if n.ID == id {
			s.feed = append(s.feed[:i], s.feed[i+1:]...)
			s.persist()
			return
		}
	}
}

// MarkRead marks one notification read. Already-read entries and unknown
// IDs are no-ops.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.feed {
		if s.feed[i].ID == id {
			if !s.feed[i].Read {
				s.feed[i].Read = true
				s.persist()
			}
			return
		}
	}
}

// MarkAllRead marks the whole feed read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := range s.feed {
		if !s.feed[i].Read {
			s.feed[i].Read = true
			changed = true
		}
	}
	if changed {
		s.persist()
	}
}

// ClearAll empties the feed. The empty feed is persisted, so clearing is
// not undone by a restart.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = []Notification{}
	s.persist()
}

// Update applies a partial edit in place. Unknown IDs are a no-op.
func (s *Store) Update(id string, u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.feed {
		if s.feed[i].ID != id {
			continue
		}
		if u.Title != nil {
			s.feed[i].Title = *u.Title
		}
		if u.Message != nil {
			s.feed[i].Message = *u.Message
		}
		if u.Time != nil {
			s.feed[i].Time = *u.Time
		}
		if u.Read != nil {
			s.feed[i].Read = *u.Read
		}
		if u.Link != nil {
			s.feed[i].Link = *u.Link
		}
		s.persist()
		return
	}
}

// List returns a copy of the feed, newest first.
func (s *Store) List() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, len(s.feed))
	copy(out, s.feed)
	return out
}

// UnreadCount returns how many notifications are unread.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.feed {
		if !n.Read {
			count++
		}
	}
	return count
}

// ByType returns the notifications of one type, newest first.
func (s *Store) ByType(typ string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Notification
	for _, n := range s.feed {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// Latest returns the newest notification, or nil for an empty feed.
func (s *Store) Latest() *Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.feed) == 0 {
		return nil
	}
	n := s.feed[0]
	return &n
}
