package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStore             = errors.New("store failure")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrClosed            = errors.New("store closed")
)
