package reelist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	rlerrs "github.com/jharlow/reelist/internal/errors"
)

const entryIDSuffix = "-wle"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service orchestrates the store, the catalog, and the cache behind the
// add/remove/list operations.
type Service struct {
	repo      Repository
	catalog   Catalog
	cache     Cache
	namespace string
}

func NewService(repo Repository, catalog Catalog, cache Cache, namespace string) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		cache:     cache,
		namespace: namespace,
	}
}

// AddEntry puts a piece of content on a user's list. The store's
// uniqueness constraint is the sole arbiter under concurrent duplicates:
// the pre-check below only gives the common case a friendlier path, the
// insert itself still conflicts when racing adds slip past it.
func (s *Service) AddEntry(ctx context.Context, userID, contentID string, contentType ContentType) (ListEntry, error) {
	if !contentType.Valid() {
		return ListEntry{}, rlerrs.E(rlerrs.KindBadRequest, fmt.Sprintf("unknown content type %q", contentType))
	}

	snap, err := s.catalog.ResolveContent(ctx, contentID, contentType)
	if err != nil {
		return ListEntry{}, err
	}

	if _, err := s.repo.EntryByContent(ctx, userID, contentID); err == nil {
		return ListEntry{}, rlerrs.E(rlerrs.KindConflict, "item already in list")
	} else if rlerrs.KindOf(err) != rlerrs.KindNotFound {
		return ListEntry{}, fmt.Errorf("error checking for existing entry: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return ListEntry{}, fmt.Errorf("error generating entry id: %w", err)
	}

	entry := ListEntry{
		ID:          id.String() + entryIDSuffix,
		UserID:      userID,
		ContentID:   contentID,
		ContentType: contentType,
		AddedAt:     time.Now().UTC(),
		Title:       snap.Title,
		Description: snap.Description,
		Genres:      snap.Genres,
		ReleaseDate: snap.ReleaseDate,
		Director:    snap.Director,
		Actors:      snap.Actors,
	}
	if err := s.repo.InsertEntry(ctx, entry); err != nil {
		return ListEntry{}, err
	}

	// Invalidation happens before the caller hears back, so a read that
	// starts after this add returns cannot see a pre-add page.
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		return ListEntry{}, fmt.Errorf("error invalidating cache: %w", err)
	}

	return entry, nil
}

// RemoveEntry takes a piece of content off a user's list.
func (s *Service) RemoveEntry(ctx context.Context, userID, contentID string) error {
	if err := s.repo.DeleteEntry(ctx, userID, contentID); err != nil {
		return err
	}

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		return fmt.Errorf("error invalidating cache: %w", err)
	}

	return nil
}

// ListEntries reads a page of a user's list in canonical order, through
// the cache. Cache failures never fail the read; they just turn it into
// a miss against the store.
func (s *Service) ListEntries(ctx context.Context, userID string, params ListParams) (ListResult, error) {
	params, err := normalizeParams(params)
	if err != nil {
		return ListResult{}, err
	}

	// Decode up front so a garbage cursor is rejected before it gets
	// baked into a cache key.
	var before *Cursor
	if params.Type == PaginationCursor && params.Cursor != "" {
		c, err := DecodeCursor(params.Cursor)
		if err != nil {
			return ListResult{}, err
		}
		before = &c
	}

	var key string
	switch params.Type {
	case PaginationOffset:
		key = OffsetPageKey(s.namespace, userID, params.Page, params.Limit)
	case PaginationCursor:
		key = CursorPageKey(s.namespace, userID, params.Cursor, params.Limit)
	}

	if data, err := s.cache.Get(ctx, key); err == nil {
		var page Page
		if err := json.Unmarshal(data, &page); err == nil {
			return ListResult{Page: page, CacheHit: true}, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cached page", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		slog.WarnContext(ctx, "cache read failed, treating as miss", "key", key, "error", err)
	}

	var page Page
	switch params.Type {
	case PaginationOffset:
		page, err = s.offsetPage(ctx, userID, params)
	case PaginationCursor:
		page, err = s.cursorPage(ctx, userID, params, before)
	}
	if err != nil {
		return ListResult{}, err
	}

	if data, err := json.Marshal(page); err == nil {
		// Population is best-effort; a cold cache only costs latency.
		if err := s.cache.Set(ctx, key, data); err != nil {
			slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		}
	}

	return ListResult{Page: page, CacheHit: false}, nil
}

// offsetPage fetches page/limit style. The count and the page fetch are
// two separate store reads: a mutation racing between them can skew
// totalItems against the returned items by the number of concurrent
// mutations, which is accepted.
func (s *Service) offsetPage(ctx context.Context, userID string, params ListParams) (Page, error) {
	entries, err := s.repo.UserEntries(ctx, userID, UserEntriesArgs{
		Offset: (params.Page - 1) * params.Limit,
		Limit:  params.Limit,
	})
	if err != nil {
		return Page{}, fmt.Errorf("error fetching page: %w", err)
	}

	total, err := s.repo.CountUserEntries(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("error counting entries: %w", err)
	}

	totalPages := (total + params.Limit - 1) / params.Limit

	if entries == nil {
		entries = []ListEntry{}
	}

	return Page{
		Items: entries,
		Pagination: Pagination{
			Offset: &OffsetPagination{
				Type:        PaginationOffset,
				Page:        params.Page,
				Limit:       params.Limit,
				TotalItems:  total,
				TotalPages:  totalPages,
				HasNextPage: params.Page < totalPages,
				HasPrevPage: params.Page > 1,
			},
		},
	}, nil
}

// cursorPage fetches keyset style: one extra row past the limit tells us
// whether another page exists without a second query.
func (s *Service) cursorPage(ctx context.Context, userID string, params ListParams, before *Cursor) (Page, error) {
	entries, err := s.repo.UserEntries(ctx, userID, UserEntriesArgs{
		Limit:  params.Limit + 1,
		Before: before,
	})
	if err != nil {
		return Page{}, fmt.Errorf("error fetching page: %w", err)
	}

	hasNext := len(entries) > params.Limit
	if hasNext {
		entries = entries[:params.Limit]
	}

	var nextCursor *string
	if hasNext {
		last := entries[len(entries)-1]
		c := EncodeCursor(Cursor{AddedAt: last.AddedAt, ID: last.ID})
		nextCursor = &c
	}

	var prevCursor *string
	if params.Cursor != "" {
		c := params.Cursor
		prevCursor = &c
	}

	if entries == nil {
		entries = []ListEntry{}
	}

	return Page{
		Items: entries,
		Pagination: Pagination{
			Cursor: &CursorPagination{
				Type:        PaginationCursor,
				Limit:       params.Limit,
				NextCursor:  nextCursor,
				PrevCursor:  prevCursor,
				HasNextPage: hasNext,
				HasPrevPage: params.Cursor != "",
			},
		},
	}, nil
}

func normalizeParams(params ListParams) (ListParams, error) {
	if params.Type == "" {
		params.Type = PaginationOffset
	}
	if params.Type != PaginationOffset && params.Type != PaginationCursor {
		return params, rlerrs.E(rlerrs.KindBadRequest, fmt.Sprintf("unknown pagination type %q", params.Type))
	}

	if params.Limit == 0 {
		params.Limit = defaultLimit
	}
	if params.Limit < 1 || params.Limit > maxLimit {
		return params, rlerrs.E(rlerrs.KindBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
	}

	if params.Type == PaginationOffset {
		if params.Page == 0 {
			params.Page = 1
		}
		if params.Page < 1 {
			return params, rlerrs.E(rlerrs.KindBadRequest, "page must be at least 1")
		}
	}

	return params, nil
}
