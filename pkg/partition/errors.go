package partition

import "errors"

var (
	// ErrOutOfDomain is returned for a position outside the domain or on a
	// boundary the operation does not allow.
	ErrOutOfDomain = errors.New("out of domain")
	// ErrEmptyPartition is returned when an operation needs at least one item.
	ErrEmptyPartition = errors.New("empty partition")
	// ErrInvalidIndex is returned for an index outside [0, len).
	ErrInvalidIndex = errors.New("invalid index")
	// ErrMalformedInput is returned when the input does not hold the
	// partition invariants. Only Fix repairs such input.
	ErrMalformedInput = errors.New("malformed input")
)
