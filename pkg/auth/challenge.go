package auth

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ChallengeVersion is the sign-in protocol version marker embedded in every
// challenge. The verifying service rejects other versions.
const ChallengeVersion = "1"

// nonceLength is the number of alphanumeric characters in a challenge nonce.
// The nonce only prevents byte-identical repeated messages; the verifier is
// stateless and does not track nonces.
const nonceLength = 16

const nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ChallengeParams are the inputs to a sign-in challenge.
type ChallengeParams struct {
	// Domain is the origin host without scheme (e.g. "app.zkpay.io").
	Domain string
	// Address is the signing identity's address.
	Address common.Address
	// URI is the full origin (e.g. "https://app.zkpay.io").
	URI string
	// ChainID is the network identifier the deployment expects.
	ChainID string
	// Nonce is a freshness nonce; see NewNonce.
	Nonce string
	// IssuedAt is the challenge issuance instant.
	IssuedAt time.Time
}

// BuildChallenge renders the sign-in challenge message. The textual layout is
// a contract with the remote verifier and must not change:
//
//	<domain> wants you to sign in with your Ethereum account:
//	<address>
//
//	URI: <uri>
//	Version: 1
//	Chain ID: <chainID>
//	Nonce: <nonce>
//	Issued At: <RFC3339 UTC>
func BuildChallenge(p ChallengeParams) string {
	return fmt.Sprintf(
		"%s wants you to sign in with your Ethereum account:\n%s\n\nURI: %s\nVersion: %s\nChain ID: %s\nNonce: %s\nIssued At: %s",
		p.Domain,
		p.Address.Hex(),
		p.URI,
		ChallengeVersion,
		p.ChainID,
		p.Nonce,
		p.IssuedAt.UTC().Format(time.RFC3339),
	)
}

// NewNonce returns a fresh random alphanumeric nonce.
func NewNonce() string {
	buf := make([]byte, nonceLength)
	_, _ = rand.Read(buf)
	out := make([]byte, nonceLength)
	for i, b := range buf {
		out[i] = nonceAlphabet[int(b)%len(nonceAlphabet)]
	}
	return string(out)
}
