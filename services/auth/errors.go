package auth

import "errors"

// ErrSessionNotFound is returned for unknown, ended or reaped sessions
var ErrSessionNotFound = errors.New("session not found")
