// Package config defines the runtime configuration for the SDK, including the
// zkpay API endpoint, the sign-in origin, Ethereum network settings, token-list
// location, credential-cache location, debug mode, and operation timeouts.
// It also provides validation and defaulting helpers.
package config

import (
	"crypto/ecdsa"
	"errors"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

// Config holds all SDK settings required to initialize API, authentication and
// blockchain clients. Use Validate to fill implicit defaults and to check for
// required fields.
type Config struct {
	// APIURL is the base URL of the zkpay payment service.
	// Default: https://api.zkpay.io
	APIURL string `json:"api_url" yaml:"api_url"`
	// Origin is the full origin URI embedded in sign-in challenges. Its host
	// becomes the challenge domain. Default: https://app.zkpay.io
	Origin string `json:"origin" yaml:"origin"`
	// Network selects the target chain (chain ID and human-readable name).
	// The chain ID is embedded in sign-in challenges and used for token lookups.
	Network Network `json:"network" yaml:"network"`
	// RPCAddr is an Ethereum RPC endpoint URL (optional; required only for
	// on-chain token metadata fallback).
	RPCAddr string `json:"rpc_addr" yaml:"rpc_addr"`
	// PrivateKey is the hex-encoded ECDSA private key used to bind payments to
	// a signer identity (optional; without it all calls are unauthenticated).
	PrivateKey string `json:"private_key" yaml:"private_key"`
	// TokenListURL points at the token list used for token metadata resolution.
	// Both https:// URLs and ipfs:// URIs are accepted.
	// Default: https://tokens.zkpay.io/tokenlist.json
	TokenListURL string `json:"token_list_url" yaml:"token_list_url"`
	// IpfsURL is the HTTP API endpoint of the IPFS node used to read
	// ipfs:// token lists. Default: https://ipfs.io:443
	IpfsURL string `json:"ipfs_url" yaml:"ipfs_url"`
	// CachePath is the filesystem path of the durable credential cache.
	// Empty disables persistence; credentials are then held in memory only.
	CachePath string `json:"cache_path" yaml:"cache_path"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// Network describes a blockchain network (chain ID and name). ChainID appears
// verbatim in the sign-in challenge; Name is informational.
type Network struct {
	ChainID string `json:"chain_id"`
	Name    string `json:"network_name"`
}

// Main is a predefined Network for Ethereum mainnet.
var Main = Network{
	ChainID: "1",
	Name:    "main",
}

// Sepolia is a predefined Network for Ethereum Sepolia testnet.
var Sepolia = Network{
	ChainID: "11155111",
	Name:    "sepolia",
}

// Timeouts controls SDK operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	HTTPRequest      time.Duration // generic API request
	AuthExchange     time.Duration // sign-in challenge exchange
	ChainRead        time.Duration // eth_call, balance etc
	TokenListFetch   time.Duration // token list download
	TokenListRefresh time.Duration // token list cache TTL
	OperatorRefresh  time.Duration // operator address cache TTL
}

// Validate normalizes the configuration by applying implicit defaults for
// APIURL, Origin, TokenListURL, IpfsURL and Network (defaults to mainnet) and
// verifies that the origin parses as an absolute URL.
func (c *Config) Validate() error {

	if c.APIURL == "" {
		c.APIURL = "https://api.zkpay.io"
	}

	if c.Origin == "" {
		c.Origin = "https://app.zkpay.io"
	}

	if c.TokenListURL == "" {
		c.TokenListURL = "https://tokens.zkpay.io/tokenlist.json"
	}

	if c.IpfsURL == "" {
		c.IpfsURL = "https://ipfs.io:443"
	}

	if c.Network.ChainID == "" {
		c.Network = Main
	}

	u, err := url.Parse(c.Origin)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return errors.New("origin must be an absolute URL")
	}

	return nil
}

// OriginHost returns the host portion of the configured origin (scheme and
// path stripped), used as the sign-in challenge domain. Returns "" when the
// origin does not parse.
func (c *Config) OriginHost() string {
	u, err := url.Parse(c.Origin)
	if err != nil {
		return ""
	}
	return u.Host
}

// GetPrivateKey parses the configured private key and returns it, or nil when
// no key is configured or the hex is invalid.
func (c *Config) GetPrivateKey() *ecdsa.PrivateKey {
	if c.PrivateKey == "" {
		return nil
	}
	key, err := crypto.HexToECDSA(c.PrivateKey)
	if err != nil {
		return nil
	}
	return key
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	HTTPRequest:      10s
//	AuthExchange:     10s
//	ChainRead:        12s
//	TokenListFetch:   15s
//	TokenListRefresh: 5m
//	OperatorRefresh:  5m
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.HTTPRequest == 0 {
		tt.HTTPRequest = 10 * time.Second
	}
	if tt.AuthExchange == 0 {
		tt.AuthExchange = 10 * time.Second
	}
	if tt.ChainRead == 0 {
		tt.ChainRead = 12 * time.Second
	}
	if tt.TokenListFetch == 0 {
		tt.TokenListFetch = 15 * time.Second
	}
	if tt.TokenListRefresh == 0 {
		tt.TokenListRefresh = 5 * time.Minute
	}
	if tt.OperatorRefresh == 0 {
		tt.OperatorRefresh = 5 * time.Minute
	}
	return tt
}
