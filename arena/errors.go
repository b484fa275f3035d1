package arena

import "errors"

var (
	// ErrExhausted indicates the source cannot grant any more region.
	ErrExhausted = errors.New("arena: memory source exhausted")

	// ErrBadSize indicates a non-positive extension request.
	ErrBadSize = errors.New("arena: extend size must be positive")

	// ErrClosed indicates use of a source after Close.
	ErrClosed = errors.New("arena: source is closed")
)
