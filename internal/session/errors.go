package session

import "errors"

// ErrNotLoaded is returned by operations that need the catalogue before
// Load has succeeded.
var ErrNotLoaded = errors.New("session not loaded")
