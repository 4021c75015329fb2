// Package reelist holds the domain model for the watchlist service:
// list entries, the content catalog surface, pagination, and the
// service that orchestrates the store and the cache.
package reelist

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by a Cache when the key is absent. Any other
// error from a Cache is a transport failure and is treated as a miss by
// the read path.
var ErrCacheMiss = errors.New("cache miss")

// ContentType distinguishes the two kinds of catalog content.
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeTVShow ContentType = "tv-show"
)

func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeTVShow
}

type (
	// ListEntry is one saved item on a user's watchlist. The content
	// fields are a snapshot taken at add time and never updated.
	//
	// Entries are ordered by (AddedAt descending, ID descending). IDs are
	// time-ordered, so the tie-break keeps the order total when several
	// entries share the same AddedAt.
	ListEntry struct {
		ID          string      `json:"id"`
		UserID      string      `json:"user_id"`
		ContentID   string      `json:"content_id"`
		ContentType ContentType `json:"content_type"`
		AddedAt     time.Time   `json:"added_at"`

		Title       string    `json:"title"`
		Description string    `json:"description"`
		Genres      []string  `json:"genres"`
		ReleaseDate time.Time `json:"release_date"`
		Director    string    `json:"director,omitempty"`
		Actors      []string  `json:"actors"`
	}

	// ContentSnapshot is what gets denormalized onto a ListEntry when it
	// is created.
	ContentSnapshot struct {
		Title       string
		Description string
		Genres      []string
		ReleaseDate time.Time
		Director    string
		Actors      []string
	}

	// Movie is a single film in the catalog.
	Movie struct {
		ID          string
		Title       string
		Description string
		Genres      []string
		ReleaseDate time.Time
		Director    string
		Actors      []string
	}

	// Show is a TV show in the catalog. Release date, director and cast
	// are derived from its episodes.
	Show struct {
		ID          string
		Title       string
		Description string
		Genres      []string
	}

	// Episode belongs to a Show. Episodes are ordered by season then
	// episode number.
	Episode struct {
		ID          string
		ShowID      string
		Season      int
		Episode     int
		ReleaseDate time.Time
		Director    string
		Actors      []string
	}

	// UserEntriesArgs narrows a canonical-order page query. Offset and
	// Before are mutually exclusive: offset pagination skips, cursor
	// pagination filters to entries strictly before the cursor position.
	UserEntriesArgs struct {
		Offset int
		Limit  int
		Before *Cursor
	}

	// Repository is the durable store for list entries. Implementations
	// must enforce uniqueness on (user, content) and return a conflict
	// error from InsertEntry when it is violated.
	Repository interface {
		InsertEntry(ctx context.Context, entry ListEntry) error
		DeleteEntry(ctx context.Context, userID string, contentID string) error
		EntryByContent(ctx context.Context, userID string, contentID string) (ListEntry, error)
		UserEntries(ctx context.Context, userID string, args UserEntriesArgs) ([]ListEntry, error)
		CountUserEntries(ctx context.Context, userID string) (int, error)
	}

	// Catalog resolves content into the snapshot stored on a list entry.
	Catalog interface {
		ResolveContent(ctx context.Context, contentID string, contentType ContentType) (ContentSnapshot, error)
	}

	// Cache is a TTL'd key-value store for serialized pages. Get returns
	// ErrCacheMiss when the key is absent; any other error means the
	// cache is unreachable and callers degrade to a miss.
	Cache interface {
		Get(ctx context.Context, key string) ([]byte, error)
		Set(ctx context.Context, key string, value []byte) error
		InvalidateUser(ctx context.Context, userID string) error
	}
)
