// Package config provides configuration management for the zkpay SDK.
//
// This package defines the Config structure that controls all SDK behavior
// including the API endpoint, sign-in origin, network selection, token-list
// location, the durable credential cache, and timeouts.
//
// # Basic Configuration
//
// The zero configuration is usable; Validate fills every default:
//
//	cfg := &config.Config{}
//	_ = cfg.Validate()
//
// # Network Selection
//
// Two predefined networks are available:
//
//	config.Main    - Ethereum mainnet (ChainID: 1)
//	config.Sepolia - Ethereum Sepolia testnet (ChainID: 11155111)
//
// Custom networks can be defined:
//
//	customNet := config.Network{
//		ChainID: "137",
//		Name:    "polygon",
//	}
//
// The chain ID is embedded verbatim in sign-in challenges, so it must match
// what the authenticating deployment expects.
//
// # Private Key
//
// Setting PrivateKey binds payments to a signer identity and enables
// authenticated retrieval. Without it every call degrades to an
// unauthenticated request.
//
// # Credential Cache
//
// Setting CachePath points the SDK at a file used to persist the encrypted
// session credential across process restarts. Leaving it empty keeps the
// credential in memory only.
package config
