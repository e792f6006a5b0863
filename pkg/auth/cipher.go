package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// kdfIterations is the fixed PBKDF2 iteration count. The derived key only
	// guards against casual local inspection, not a determined attacker with
	// code execution on the same machine.
	kdfIterations = 100000
	// keyLength is the derived AES-256 key size in bytes.
	keyLength = 32
	// saltPrefix binds the per-address salt to the credential cache.
	saltPrefix = "zkpay_auth:"
	// blobDelimiter separates the hex IV from the hex ciphertext.
	blobDelimiter = ":"
)

// Cipher encrypts and decrypts credential records with a key derived
// deterministically from a signer address. Records written under one identity
// fail authentication when read under another.
type Cipher struct {
	key []byte
}

// NewCipher derives the symmetric key for address and returns a ready Cipher.
// The derivation is PBKDF2-SHA256 over the lowercase address with a
// per-address salt.
func NewCipher(address common.Address) *Cipher {
	addr := strings.ToLower(address.Hex())
	salt := []byte(saltPrefix + addr)
	return &Cipher{
		key: pbkdf2.Key([]byte(addr), salt, kdfIterations, keyLength, sha256.New),
	}
}

// Encrypt serializes cred to canonical JSON and seals it with AES-256-GCM
// under a fresh random nonce. The result is hex(nonce) ":" hex(ciphertext).
func (c *Cipher) Encrypt(cred *Credential) (string, error) {
	plaintext, err := json.Marshal(cred)
	if err != nil {
		return "", fmt.Errorf("failed to serialize credential: %w", err)
	}

	aead, err := c.aead()
	if err != nil {
		return "", err
	}

	iv := make([]byte, aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, iv, plaintext, nil)
	return hex.EncodeToString(iv) + blobDelimiter + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Any malformed input, authentication failure, or
// wrong key yields a *DecryptionError; a forged credential is never returned.
func (c *Cipher) Decrypt(blob string) (*Credential, error) {
	parts := strings.SplitN(blob, blobDelimiter, 2)
	if len(parts) != 2 {
		return nil, &DecryptionError{Err: errors.New("record is not iv:ciphertext")}
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, &DecryptionError{Err: fmt.Errorf("bad iv encoding: %w", err)}
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, &DecryptionError{Err: fmt.Errorf("bad ciphertext encoding: %w", err)}
	}

	aead, err := c.aead()
	if err != nil {
		return nil, &DecryptionError{Err: err}
	}
	if len(iv) != aead.NonceSize() {
		return nil, &DecryptionError{Err: fmt.Errorf("bad iv length %d", len(iv))}
	}

	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, &DecryptionError{Err: err}
	}

	cred := &Credential{}
	if err := json.Unmarshal(plaintext, cred); err != nil {
		return nil, &DecryptionError{Err: fmt.Errorf("bad credential payload: %w", err)}
	}
	return cred, nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize aead: %w", err)
	}
	return aead, nil
}
