package reelist

import "fmt"

// Cache keys are a pure function of (user, pagination mode, parameters).
// The mode segment keeps the two key spaces from ever colliding, and the
// user segment right after the namespace is what InvalidateUser sweeps
// on.

// OffsetPageKey derives the cache key for an offset-mode read.
func OffsetPageKey(namespace, userID string, page, limit int) string {
	return fmt.Sprintf("%s:%s:offset:page:%d:limit:%d", namespace, userID, page, limit)
}

// CursorPageKey derives the cache key for a cursor-mode read. The cursor
// is used verbatim as its opaque wire string; the first page, which has
// no cursor, keys on "first".
func CursorPageKey(namespace, userID, cursor string, limit int) string {
	if cursor == "" {
		cursor = "first"
	}

	return fmt.Sprintf("%s:%s:cursor:%s:limit:%d", namespace, userID, cursor, limit)
}

// UserKeyPrefix is the common prefix of every cache key belonging to a
// user.
func UserKeyPrefix(namespace, userID string) string {
	return fmt.Sprintf("%s:%s:", namespace, userID)
}
