package ai

import "errors"

// ErrTransient marks service errors that are likely to succeed on a later
// run (rate limiting, server errors, network timeouts).
var ErrTransient = errors.New("transient analysis service error")
