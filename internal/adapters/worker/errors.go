package worker

import "errors"

// Sentinel errors for the worker pool.
var (
	ErrPoolCreate = errors.New("worker pool creation failed")
	ErrSubmit     = errors.New("task submission failed")
	ErrTaskPanic  = errors.New("task panicked")
)
