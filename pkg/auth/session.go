package auth

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jonboulle/clockwork"
	"github.com/zkpay/zkpay-sdk-go/pkg/rest"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultExpiryBuffer is subtracted from the server-reported token lifetime so
// a token is refreshed before the service actually rejects it.
const DefaultExpiryBuffer = 60 * time.Second

// authPath is the challenge-exchange endpoint of the zkpay service.
const authPath = "/v1/auth"

type authRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Session coordinates the sign-in lifecycle: it holds the in-memory
// credential, decides when a refresh is due, collapses concurrent refresh
// attempts into a single in-flight exchange, and persists successful results
// through the credential store.
//
// A Session without an Identity is the unauthenticated mode: every call is an
// immediate no-op and no credential is ever held.
type Session struct {
	api      *rest.Client
	identity Identity
	origin   string
	domain   string
	chainID  string
	buffer   time.Duration
	store    *CredentialStore
	clock    clockwork.Clock

	mu   sync.Mutex
	cred *Credential

	// flight shares one in-flight refresh among concurrent callers; the entry
	// clears itself when the exchange resolves, so the next miss starts fresh.
	flight singleflight.Group
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithStore attaches a credential store. The session seeds its in-memory
// credential from it at construction and persists refreshed credentials to it.
func WithStore(store *CredentialStore) SessionOption {
	return func(s *Session) { s.store = store }
}

// WithClock injects the session's clock. Tests use a fake clock to drive
// expiry without sleeping.
func WithClock(clock clockwork.Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

// WithExpiryBuffer overrides the safety buffer subtracted from the
// server-reported token lifetime.
func WithExpiryBuffer(buffer time.Duration) SessionOption {
	return func(s *Session) { s.buffer = buffer }
}

// NewSession constructs a session for identity against the service behind api.
// origin is the full origin URI embedded in challenges; its host becomes the
// challenge domain. chainID is the network identifier the deployment expects.
// identity may be nil for unauthenticated use.
func NewSession(api *rest.Client, identity Identity, origin, chainID string, opts ...SessionOption) *Session {
	s := &Session{
		api:      api,
		identity: identity,
		origin:   origin,
		chainID:  chainID,
		buffer:   DefaultExpiryBuffer,
		clock:    clockwork.NewRealClock(),
	}
	if u, err := url.Parse(origin); err == nil {
		s.domain = u.Host
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewCredentialStore(nil, nil, s.clock)
	}
	if identity != nil {
		if cred := s.store.Load(); cred != nil {
			s.cred = cred
			zap.L().Debug("seeded session from credential cache")
		}
	}
	return s
}

// EnsureAuthenticated guarantees that on successful return either no identity
// is configured or a non-expired credential is held. Safe for repeated and
// concurrent use: overlapping callers of an expired session await the same
// refresh episode, and exactly one challenge exchange happens per episode.
//
// Failures surface as *AuthenticationError wrapping the cause (signing
// failure, exchange failure, or timeout). After a failed refresh no credential
// is held; the next protected call starts a fresh attempt. No retries happen
// internally.
func (s *Session) EnsureAuthenticated(ctx context.Context) error {
	if s.identity == nil {
		return nil
	}

	if s.credentialValid() {
		return nil
	}

	_, err, _ := s.flight.Do("refresh", func() (any, error) {
		// A refresh that completed while this caller was queueing already
		// produced a fresh credential.
		if s.credentialValid() {
			return nil, nil
		}
		return nil, s.refresh(ctx)
	})
	return err
}

// CredentialToken returns the currently held bearer token. It is a pure read:
// it never triggers a refresh and reports false when no valid credential is
// held.
func (s *Session) CredentialToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cred.Valid(s.clock.Now()) {
		return "", false
	}
	return s.cred.Token, true
}

// refresh runs one complete challenge→sign→exchange episode. On success the
// new credential replaces session state and is persisted best-effort; on
// failure session state is cleared (fail closed).
func (s *Session) refresh(ctx context.Context) error {
	address := s.identity.Address()
	challenge := BuildChallenge(ChallengeParams{
		Domain:   s.domain,
		Address:  address,
		URI:      s.origin,
		ChainID:  s.chainID,
		Nonce:    NewNonce(),
		IssuedAt: s.clock.Now(),
	})

	signature, err := s.identity.SignMessage([]byte(challenge))
	if err != nil {
		s.setCredential(nil)
		return &AuthenticationError{Err: fmt.Errorf("failed to sign challenge: %w", err)}
	}

	var resp authResponse
	err = s.api.Post(ctx, authPath, authRequest{
		Message:   challenge,
		Signature: hexutil.Encode(signature),
	}, &resp)
	if err != nil {
		s.setCredential(nil)
		return &AuthenticationError{Err: fmt.Errorf("challenge exchange failed: %w", err)}
	}

	lifetime := time.Duration(resp.ExpiresIn)*time.Second - s.buffer
	cred := &Credential{
		Token:     resp.Token,
		ExpiresAt: s.clock.Now().Add(lifetime).UnixMilli(),
	}
	s.setCredential(cred)
	s.store.Save(cred)

	zap.L().Debug("session credential refreshed",
		zap.String("address", address.Hex()),
		zap.Int64("expiresAt", cred.ExpiresAt))
	return nil
}

func (s *Session) credentialValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred.Valid(s.clock.Now())
}

func (s *Session) setCredential(cred *Credential) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
}
