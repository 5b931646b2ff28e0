package space

import "errors"

var (
	// ErrMalformedPayload means the upstream body does not have the expected shape
	ErrMalformedPayload = errors.New("malformed upstream payload")

	// ErrEmptyRoster means the upstream reported nobody and a zero count, which is
	// treated as a broken response rather than an empty sky
	ErrEmptyRoster = errors.New("empty astronaut roster")
)
