package sdk

import "fmt"

// ValidationError reports a caller-supplied parameter the SDK rejected before
// any request was made. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
