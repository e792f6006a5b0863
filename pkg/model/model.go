// Package model defines data structures exchanged with the zkpay service and
// the token-list ecosystem: payments, payment filters, and token metadata.
// These structs mirror the JSON documents served by the payment API and by
// standard token lists.
package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// PaymentStatus enumerates the lifecycle states the service reports for a payment.
type PaymentStatus string

const (
	// PaymentPending means the payment was created and awaits funds.
	PaymentPending PaymentStatus = "pending"
	// PaymentConfirmed means the deposit was observed and confirmed on-chain.
	PaymentConfirmed PaymentStatus = "confirmed"
	// PaymentExpired means the payment window elapsed without a deposit.
	PaymentExpired PaymentStatus = "expired"
	// PaymentFailed means the deposit could not be processed.
	PaymentFailed PaymentStatus = "failed"
)

// Payment is the payment-channel resource as served by the zkpay API.
// Amount is a decimal string in the token's base units.
type Payment struct {
	ID             string            `json:"id"`
	Status         PaymentStatus     `json:"status"`
	ChainID        int64             `json:"chainId"`
	TokenAddress   string            `json:"tokenAddress"`
	Amount         string            `json:"amount"`
	Sender         string            `json:"sender,omitempty"`
	Recipient      string            `json:"recipient"`
	DepositAddress string            `json:"depositAddress"`
	CreatedAt      time.Time         `json:"createdAt"`
	ExpiresAt      time.Time         `json:"expiresAt"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// TokenAddr returns the payment's token contract address in checksum form.
func (p *Payment) TokenAddr() common.Address {
	return common.HexToAddress(p.TokenAddress)
}

// PaymentFilter narrows ListPayments results. Zero fields are omitted from the
// query string.
type PaymentFilter struct {
	Status    PaymentStatus `json:"status,omitempty"`
	Sender    string        `json:"sender,omitempty"`
	Recipient string        `json:"recipient,omitempty"`
	Limit     int           `json:"limit,omitempty"`
	Offset    int           `json:"offset,omitempty"`
}

// TokenInfo is one entry of a token list: the metadata needed to display and
// convert amounts for an ERC-20 token on a given chain.
type TokenInfo struct {
	ChainID  int64  `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int32  `json:"decimals"`
}

// Addr returns the token's contract address in checksum form.
func (t *TokenInfo) Addr() common.Address {
	return common.HexToAddress(t.Address)
}

// TokenList mirrors the standard token-list JSON schema (subset).
type TokenList struct {
	Name      string      `json:"name"`
	Timestamp string      `json:"timestamp,omitempty"`
	Tokens    []TokenInfo `json:"tokens"`
}

// Find returns the first token matching (chainID, address), comparing
// addresses case-insensitively, or nil when absent.
func (l *TokenList) Find(chainID int64, address string) *TokenInfo {
	want := common.HexToAddress(address)
	for i := range l.Tokens {
		if l.Tokens[i].ChainID == chainID && l.Tokens[i].Addr() == want {
			return &l.Tokens[i]
		}
	}
	return nil
}
