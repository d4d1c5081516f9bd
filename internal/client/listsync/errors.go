package listsync

import "errors"

var (
	ErrInvalidPage   = errors.New("invalid page")
	ErrInvalidFilter = errors.New("unsupported filter value")
)
