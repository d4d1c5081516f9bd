// Package listsync keeps a paginated, filterable list in step with a remote
// list endpoint.
//
// Triggers (Start, SetFilters, SetPage, Refresh) may arrive in any order and
// from any goroutine. Each dispatched fetch is tagged with an epoch; only the
// response carrying the latest epoch is applied, so a slow response for an
// older query can never overwrite a newer one.
package listsync
