package mimemsg

import "errors"

var (
	// ErrNoRecipient indicates the message has no To address.
	ErrNoRecipient = errors.New("mimemsg: message has no recipient")

	// ErrNoSender indicates no From address was provided.
	ErrNoSender = errors.New("mimemsg: message has no sender")

	// ErrBoundaryExhausted indicates no collision-free boundary could be
	// generated within the attempt budget.
	ErrBoundaryExhausted = errors.New("mimemsg: could not generate a collision-free boundary")

	// ErrBoundaryRand indicates the random source failed.
	ErrBoundaryRand = errors.New("mimemsg: boundary random source failed")
)
