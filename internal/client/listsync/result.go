package listsync

// Pagination mirrors the server's list envelope metadata.
type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Result is one page of items as returned by a list endpoint. A
// Synchronizer replaces its Result wholesale; it never edits one in place.
type Result[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// State is what a Synchronizer publishes to its subscribers.
type State[T any] struct {
	// Query is the most recently dispatched query.
	Query Query
	// Result is the last accepted response; it stays in place when a
	// later fetch fails.
	Result Result[T]
	// Loading is true while the response to Query is outstanding.
	Loading bool
	// Err is the failure of the latest fetch, nil once a fetch succeeds.
	Err error
}
