package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNoStore    = errors.New("service has no store")
	ErrNotStarted = errors.New("service not started")
)
