package queue

import "errors"

var (
	// ErrQueueFull indicates the submission buffer is at capacity.
	ErrQueueFull = errors.New("queue: buffer full")

	// ErrAlreadyStarted indicates Start was called on a running queue.
	ErrAlreadyStarted = errors.New("queue: already started")

	// ErrNotStarted indicates no worker is draining the queue.
	ErrNotStarted = errors.New("queue: worker not running")

	// ErrNilJob indicates a job without a Run function.
	ErrNilJob = errors.New("queue: job has no run function")
)
