package model

import "fmt"

// ValidationError reports the first save invariant a document violates,
// attributed to the offending field so callers can point the user at it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
