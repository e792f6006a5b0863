package auth

import "fmt"

// AuthenticationError reports that a sign-in refresh episode failed: the
// identity could not produce a signature, or the challenge exchange with the
// service failed. The underlying cause is preserved for diagnostics; callers
// can treat any AuthenticationError uniformly as "authentication unavailable
// right now".
type AuthenticationError struct {
	Err error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// DecryptionError reports that a persisted credential record could not be
// decrypted: malformed blob, authentication-tag mismatch, or a key derived
// from a different identity. The credential store recovers from it locally by
// discarding the record; it never reaches SDK callers.
type DecryptionError struct {
	Err error
}

// Error implements the error interface.
func (e *DecryptionError) Error() string {
	return fmt.Sprintf("failed to decrypt credential record: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecryptionError) Unwrap() error {
	return e.Err
}
