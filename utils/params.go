package utils

import (
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page   int
	Limit  int
	Search string
}

// ParseQueryOptions reads ?page=&limit=&search= with the catalog defaults
// (page 1, 12 items per page). Bad numbers fall back to the defaults
// instead of erroring — the listing endpoint is anonymous-browse friendly.
func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 12
	}

	return QueryOptions{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
	}
}
