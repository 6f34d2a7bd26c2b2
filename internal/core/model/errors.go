package model

import "errors"

// Client-error sentinels. Handlers map these to 404 and 400; everything
// else that escapes a service is a server error.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
