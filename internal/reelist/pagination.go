package reelist

import (
	"encoding/json"
	"fmt"
)

// PaginationType selects how a list read walks the canonical order.
type PaginationType string

const (
	PaginationOffset PaginationType = "offset"
	PaginationCursor PaginationType = "cursor"
)

type (
	// ListParams are the caller-supplied knobs for a list read.
	ListParams struct {
		Type   PaginationType
		Page   int    // offset mode, 1-based
		Limit  int    // both modes, 1..100
		Cursor string // cursor mode, empty for the first page
	}

	// OffsetPagination is the metadata for a page/limit read.
	OffsetPagination struct {
		Type        PaginationType `json:"type"`
		Page        int            `json:"page"`
		Limit       int            `json:"limit"`
		TotalItems  int            `json:"totalItems"`
		TotalPages  int            `json:"totalPages"`
		HasNextPage bool           `json:"hasNextPage"`
		HasPrevPage bool           `json:"hasPrevPage"`
	}

	// CursorPagination is the metadata for a keyset read. PrevCursor only
	// echoes the cursor the caller supplied; backward walking is not
	// supported.
	CursorPagination struct {
		Type        PaginationType `json:"type"`
		Limit       int            `json:"limit"`
		NextCursor  *string        `json:"nextCursor"`
		PrevCursor  *string        `json:"prevCursor"`
		HasNextPage bool           `json:"hasNextPage"`
		HasPrevPage bool           `json:"hasPrevPage"`
	}

	// Pagination is the closed union of the two metadata variants.
	// Exactly one of the fields is set.
	Pagination struct {
		Offset *OffsetPagination
		Cursor *CursorPagination
	}

	// Page is the full result of a list read and the payload that gets
	// cached.
	Page struct {
		Items      []ListEntry `json:"items"`
		Pagination Pagination  `json:"pagination"`
	}

	// ListResult is a Page plus whether it was served from cache.
	ListResult struct {
		Page     Page
		CacheHit bool
	}
)

func (p Pagination) MarshalJSON() ([]byte, error) {
	switch {
	case p.Offset != nil:
		return json.Marshal(p.Offset)
	case p.Cursor != nil:
		return json.Marshal(p.Cursor)
	}

	return nil, fmt.Errorf("pagination has no variant set")
}

func (p *Pagination) UnmarshalJSON(byts []byte) error {
	var tag struct {
		Type PaginationType `json:"type"`
	}
	if err := json.Unmarshal(byts, &tag); err != nil {
		return err
	}

	switch tag.Type {
	case PaginationOffset:
		var o OffsetPagination
		if err := json.Unmarshal(byts, &o); err != nil {
			return err
		}
		*p = Pagination{Offset: &o}
	case PaginationCursor:
		var c CursorPagination
		if err := json.Unmarshal(byts, &c); err != nil {
			return err
		}
		*p = Pagination{Cursor: &c}
	default:
		return fmt.Errorf("unknown pagination type %q", tag.Type)
	}

	return nil
}
