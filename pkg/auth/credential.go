package auth

import "time"

// Credential is a cached bearer token together with its computed expiry
// instant (epoch milliseconds). A credential is usable only while the current
// time is strictly before ExpiresAt; the session already subtracts a safety
// buffer from the server-reported lifetime when computing ExpiresAt.
type Credential struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Valid reports whether the credential exists and has not expired at now.
func (c *Credential) Valid(now time.Time) bool {
	return c != nil && now.UnixMilli() < c.ExpiresAt
}
