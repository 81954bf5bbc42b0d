package stego

import "errors"

var (
	// ErrRange reports a value that does not fit its field: a symbol outside
	// 0-63, an integer wider than its symbol count, or a file name longer
	// than the name-length field can describe.
	ErrRange = errors.New("value out of range")

	// ErrOutOfBounds is returned by the coordinate walker when a step would
	// leave the surface.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrCapacityExceeded means the payload does not fit in the carrier.
	ErrCapacityExceeded = errors.New("data is too large to fit in the carrier")

	// ErrMalformedFrame means the carrier does not hold a readable frame.
	ErrMalformedFrame = errors.New("malformed frame")
)
