package api

import (
	"fmt"
	"net/http"
	"strconv"

	rlerrs "github.com/jharlow/reelist/internal/errors"
	"github.com/jharlow/reelist/internal/reelist"
)

// parseListParams pulls pagination parameters off the query string.
// Defaults and range checks live in the service; this only rejects
// values that aren't numbers at all.
func parseListParams(r *http.Request) (reelist.ListParams, error) {
	query := r.URL.Query()

	params := reelist.ListParams{
		Type:   reelist.PaginationType(query.Get("pagination_type")),
		Cursor: query.Get("cursor"),
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return reelist.ListParams{}, rlerrs.E(rlerrs.KindBadRequest, fmt.Sprintf("page %q is not a number", raw))
		}
		params.Page = page
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return reelist.ListParams{}, rlerrs.E(rlerrs.KindBadRequest, fmt.Sprintf("limit %q is not a number", raw))
		}
		params.Limit = limit
	}

	return params, nil
}
