// Package tokenlist resolves ERC-20 token metadata for payments.
//
// The primary source is a token-list JSON document (the standard token-list
// schema) hosted over HTTPS or on IPFS; Registry caches the fetched list and
// refetches it on an interval. Tokens missing from the list are resolved by
// reading name, symbol and decimals directly from the contract.
package tokenlist
