package reelist_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/reelist/internal/reelist"
)

func TestPaginationUnion(t *testing.T) {
	next := "tok-next"
	tests := []struct {
		name string
		in   reelist.Pagination
	}{
		{
			name: "offset variant",
			in: reelist.Pagination{Offset: &reelist.OffsetPagination{
				Type:        reelist.PaginationOffset,
				Page:        2,
				Limit:       10,
				TotalItems:  31,
				TotalPages:  4,
				HasNextPage: true,
				HasPrevPage: true,
			}},
		},
		{
			name: "cursor variant",
			in: reelist.Pagination{Cursor: &reelist.CursorPagination{
				Type:        reelist.PaginationCursor,
				Limit:       10,
				NextCursor:  &next,
				HasNextPage: true,
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)

			var got reelist.Pagination
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestPaginationUnion_Invalid(t *testing.T) {
	_, err := json.Marshal(reelist.Pagination{})
	assert.Error(t, err)

	var p reelist.Pagination
	assert.Error(t, json.Unmarshal([]byte(`{"type":"zigzag"}`), &p))
}
