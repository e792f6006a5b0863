// Package auth implements the zkpay session/authentication lifecycle.
//
// The service authenticates signers with a challenge-response scheme: the SDK
// renders a human-readable sign-in challenge (BuildChallenge), the Identity
// signs it, and the message/signature pair is exchanged for a short-lived
// bearer token at POST /v1/auth. Session owns the resulting Credential,
// refreshes it before it expires (a safety buffer is subtracted from the
// server-reported lifetime), and collapses concurrent refresh attempts into a
// single in-flight exchange.
//
// Credentials can optionally be cached across process restarts through
// CredentialStore. Records are encrypted at rest (Cipher) with a key derived
// from the signer's public address: a deliberate, lightweight protection
// against casual inspection of the cache file. A record written by one
// identity simply fails to decrypt under another and is discarded.
//
// Without an Identity the whole package degrades to a no-op: protected calls
// become unauthenticated requests and nothing touches the network or storage.
package auth
