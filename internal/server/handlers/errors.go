package handlers

import "errors"

// ErrInvalidPaging indicates malformed ps or p query parameters
var ErrInvalidPaging = errors.New("invalid paging parameters")
