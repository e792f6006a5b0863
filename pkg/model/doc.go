// Package model contains the wire-level data structures of the zkpay SDK.
//
// # Payments
//
// Payment mirrors the payment-channel resource served by the zkpay API.
// Amounts travel as decimal strings in the token's base units; use
// pkg/blockchain's conversion helpers to move between display units and base
// units.
//
// # Token lists
//
// TokenList and TokenInfo follow the community token-list JSON schema
// (https://tokenlists.org), reduced to the fields the SDK needs for amount
// conversion and display.
package model
