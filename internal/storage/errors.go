package storage

import "errors"

// ErrSessionNotFound is returned when a session ID does not exist.
var ErrSessionNotFound = errors.New("storage: session not found")
