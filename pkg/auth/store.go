package auth

import (
	"github.com/jonboulle/clockwork"
	"github.com/zkpay/zkpay-sdk-go/pkg/keyval"
	"go.uber.org/zap"
)

// StorageKey is the single key the encrypted credential record lives under.
// The key is global per store; isolation between identities comes from the
// per-identity encryption key, not the storage key.
const StorageKey = "zkpay_auth"

// CredentialStore is the passive persistence surface for the session's
// credential. It holds no lifecycle logic of its own: the session decides when
// to load and save. Without a backing store or identity every operation is a
// no-op, which is how the SDK runs in environments without durable storage.
type CredentialStore struct {
	kv     keyval.Store
	cipher *Cipher
	clock  clockwork.Clock
}

// NewCredentialStore builds a store scoped to identity's address on top of kv.
// Either argument being nil disables persistence. A nil clock falls back to
// the real clock.
func NewCredentialStore(kv keyval.Store, identity Identity, clock clockwork.Clock) *CredentialStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &CredentialStore{clock: clock}
	if kv == nil || identity == nil {
		return s
	}
	s.kv = kv
	s.cipher = NewCipher(identity.Address())
	return s
}

// Enabled reports whether the store actually persists anything.
func (s *CredentialStore) Enabled() bool {
	return s != nil && s.kv != nil && s.cipher != nil
}

// Load returns the persisted credential if one exists, decrypts under this
// identity's key, and is still unexpired. Any failure (missing record,
// malformed blob, wrong identity, expired credential) yields nil, and
// unusable records are deleted so they are not retried.
func (s *CredentialStore) Load() *Credential {
	if !s.Enabled() {
		return nil
	}

	blob, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		zap.L().Warn("credential cache read failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	cred, err := s.cipher.Decrypt(string(blob))
	if err != nil {
		zap.L().Debug("clearing unreadable credential record", zap.Error(err))
		s.clear()
		return nil
	}

	if !cred.Valid(s.clock.Now()) {
		s.clear()
		return nil
	}
	return cred
}

// Save encrypts and persists cred. Failures are logged and swallowed: losing
// the cache only costs a re-authentication on the next process start.
func (s *CredentialStore) Save(cred *Credential) {
	if !s.Enabled() || cred == nil {
		return
	}

	blob, err := s.cipher.Encrypt(cred)
	if err != nil {
		zap.L().Warn("failed to encrypt credential for caching", zap.Error(err))
		return
	}
	if err := s.kv.Put(StorageKey, []byte(blob)); err != nil {
		zap.L().Warn("failed to persist credential", zap.Error(err))
	}
}

func (s *CredentialStore) clear() {
	if err := s.kv.Delete(StorageKey); err != nil {
		zap.L().Warn("failed to clear credential record", zap.Error(err))
	}
}
