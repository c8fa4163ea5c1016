package handlers

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	maxPage      = 1 << 20
)

// pageParams reads page and limit query parameters. Both must be positive
// integers when present; limit and page are capped rather than rejected when
// too large, which also keeps the computed offset inside int range.
func pageParams(r *http.Request) (offset, limit int, err error) {
	page := defaultPage
	limit = defaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
	}

	if limit > maxLimit {
		limit = maxLimit
	}
	if page > maxPage {
		page = maxPage
	}

	return (page - 1) * limit, limit, nil
}
