package utils

import (
	"net/http"
	"strconv"
	"strings"
)

type ContextKey string

// GetPaginationParams reads page/limit query params, defaulting to page 1 with
// 20 rows and capping limit at 100.
func GetPaginationParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

var sortableColumns = map[string]bool{
	"amount":     true,
	"category":   true,
	"created_at": true,
	"name":       true,
}

// AddSorting appends an ORDER BY clause from sortBy/sortOrder query params.
// Only whitelisted column names are accepted; anything else is ignored.
func AddSorting(r *http.Request, query string) string {
	sortBy := strings.ToLower(r.URL.Query().Get("sortBy"))
	if !sortableColumns[sortBy] {
		return query
	}

	order := "ASC"
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "desc") {
		order = "DESC"
	}

	return query + " ORDER BY " + sortBy + " " + order
}
