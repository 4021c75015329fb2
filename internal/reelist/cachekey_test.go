package reelist_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jharlow/reelist/internal/reelist"
)

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "reelist:usr-1:offset:page:2:limit:10", reelist.OffsetPageKey("reelist", "usr-1", 2, 10))
	assert.Equal(t, "reelist:usr-1:cursor:first:limit:10", reelist.CursorPageKey("reelist", "usr-1", "", 10))
	assert.Equal(t, "reelist:usr-1:cursor:abc123:limit:10", reelist.CursorPageKey("reelist", "usr-1", "abc123", 10))
}

func TestCacheKeys_NoCollisions(t *testing.T) {
	keys := []string{
		reelist.OffsetPageKey("reelist", "usr-1", 1, 10),
		reelist.OffsetPageKey("reelist", "usr-1", 2, 10),
		reelist.OffsetPageKey("reelist", "usr-1", 1, 20),
		reelist.OffsetPageKey("reelist", "usr-2", 1, 10),
		reelist.CursorPageKey("reelist", "usr-1", "", 10),
		reelist.CursorPageKey("reelist", "usr-1", "abc", 10),
		reelist.CursorPageKey("reelist", "usr-1", "abc", 20),
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestUserKeyPrefix_CoversBothModes(t *testing.T) {
	prefix := reelist.UserKeyPrefix("reelist", "usr-1")

	assert.True(t, strings.HasPrefix(reelist.OffsetPageKey("reelist", "usr-1", 3, 50), prefix))
	assert.True(t, strings.HasPrefix(reelist.CursorPageKey("reelist", "usr-1", "tok", 50), prefix))
	assert.False(t, strings.HasPrefix(reelist.OffsetPageKey("reelist", "usr-10", 3, 50), prefix))
}
