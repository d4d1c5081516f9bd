package apitest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// pageParams reads page and page_size with the server's bounds. Violations
// are answered with a 422 whose detail is a list, like the real backend.
func pageParams(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	page, size = 1, defaultPageSize
	var issues []validationIssue

	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			issues = append(issues, validationIssue{Loc: []string{"query", "page"}, Msg: "Input should be greater than or equal to 1", Type: "greater_than_equal"})
		}
		page = n
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			issues = append(issues, validationIssue{Loc: []string{"query", "page_size"}, Msg: "Input should be between 1 and 100", Type: "range"})
		}
		size = n
	}

	if len(issues) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
		return 0, 0, false
	}
	return page, size, true
}

func paginate[T any](items []T, page, size int) listsync.Result[T] {
	total := len(items)
	totalPages := (total + size - 1) / size

	start := min((page-1)*size, total)
	end := min(start+size, total)

	out := make([]T, end-start)
	copy(out, items[start:end])

	return listsync.Result[T]{
		Items: out,
		Pagination: listsync.Pagination{
			Total:       total,
			Page:        page,
			PageSize:    size,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T) {
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, paginate(items, page, size))
}
