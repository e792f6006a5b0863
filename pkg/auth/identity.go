package auth

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
)

// Identity is the signer capability the session binds payments to: it reports
// a stable public address and signs arbitrary messages. Implementations are
// validated at construction, not probed at call time.
type Identity interface {
	// Address returns the identity's public Ethereum address.
	Address() common.Address
	// SignMessage produces an EIP-191 personal-sign signature over message.
	SignMessage(message []byte) ([]byte, error)
}

// PrivateKeyIdentity is an Identity backed by a local secp256k1 private key.
type PrivateKeyIdentity struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewPrivateKeyIdentity parses a hex-encoded private key (with or without a
// 0x prefix) and returns the identity it controls.
func NewPrivateKeyIdentity(privateKeyHex string) (*PrivateKeyIdentity, error) {
	address, key, err := blockchain.ParsePrivateKeyECDSA(privateKeyHex)
	if err != nil {
		return nil, err
	}
	return &PrivateKeyIdentity{key: key, address: address}, nil
}

// NewPrivateKeyIdentityFromKey wraps an already-parsed ECDSA key.
func NewPrivateKeyIdentityFromKey(key *ecdsa.PrivateKey) (*PrivateKeyIdentity, error) {
	addr := blockchain.GetAddressFromPrivateKeyECDSA(key)
	if addr == nil {
		return nil, errors.New("invalid private key")
	}
	return &PrivateKeyIdentity{key: key, address: *addr}, nil
}

// Address returns the identity's public Ethereum address.
func (i *PrivateKeyIdentity) Address() common.Address {
	return i.address
}

// SignMessage produces an EIP-191 personal-sign signature over message.
func (i *PrivateKeyIdentity) SignMessage(message []byte) ([]byte, error) {
	return blockchain.PersonalSign(message, i.key)
}
