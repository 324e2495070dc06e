package catalog

import "errors"

// ErrUnknownQuery is returned for a selector outside the catalog.
var ErrUnknownQuery = errors.New("invalid query number")
