package session

import "errors"

// ErrSessionNotFound reports an unknown or expired continuation token. It is
// a distinct condition from an empty result set, so callers can tell "no
// results" from "your session expired".
var ErrSessionNotFound = errors.New("search session not found or expired")
