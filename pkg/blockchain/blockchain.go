// Package blockchain provides the Ethereum-facing helpers of the zkpay SDK:
// an RPC client wrapper with ERC-20 metadata reads, ECDSA key parsing,
// EIP-191 personal-sign signatures and signer recovery, and decimal/base-unit
// amount conversion.
package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// erc20MetadataABI covers the three read-only ERC-20 metadata methods the SDK
// needs for token resolution.
const erc20MetadataABI = `[
  {"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
  {"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
  {"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

// ContractCaller is the read-only contract surface the client needs.
// *ethclient.Client satisfies it; tests substitute a fake.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// ERC20Metadata is the on-chain token metadata read from a contract.
type ERC20Metadata struct {
	Name     string
	Symbol   string
	Decimals int32
}

// EVMClient wraps a connected Ethereum RPC client and a parsed ERC-20 ABI.
type EVMClient struct {
	Client *ethclient.Client

	caller ContractCaller
	abi    abi.ABI
}

// InitEvm dials an Ethereum endpoint and returns a ready EVMClient.
func InitEvm(endpoint string) (*EVMClient, error) {
	client, err := ethclient.Dial(endpoint)
	if err != nil {
		zap.L().Error("Failed to ethdial", zap.Error(err))
		return nil, err
	}
	evm, err := newEVMClient(client)
	if err != nil {
		client.Close()
		return nil, err
	}
	evm.Client = client
	return evm, nil
}

// NewEVMClientWithCaller builds an EVMClient on top of an arbitrary
// ContractCaller. Intended for tests.
func NewEVMClientWithCaller(caller ContractCaller) (*EVMClient, error) {
	return newEVMClient(caller)
}

func newEVMClient(caller ContractCaller) (*EVMClient, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20MetadataABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}
	return &EVMClient{caller: caller, abi: parsed}, nil
}

// TokenMetadata reads name, symbol and decimals from the ERC-20 contract at
// tokenAddr.
func (e *EVMClient) TokenMetadata(ctx context.Context, tokenAddr common.Address) (*ERC20Metadata, error) {
	meta := &ERC20Metadata{}

	if err := e.callString(ctx, tokenAddr, "name", &meta.Name); err != nil {
		return nil, err
	}
	if err := e.callString(ctx, tokenAddr, "symbol", &meta.Symbol); err != nil {
		return nil, err
	}

	raw, err := e.call(ctx, tokenAddr, "decimals")
	if err != nil {
		return nil, err
	}
	out, err := e.abi.Unpack("decimals", raw)
	if err != nil || len(out) != 1 {
		return nil, fmt.Errorf("failed to decode decimals: %w", err)
	}
	dec, ok := out[0].(uint8)
	if !ok {
		return nil, fmt.Errorf("unexpected decimals type %T", out[0])
	}
	meta.Decimals = int32(dec)

	zap.L().Debug("Read token metadata",
		zap.String("token", tokenAddr.Hex()),
		zap.String("symbol", meta.Symbol),
		zap.Int32("decimals", meta.Decimals))
	return meta, nil
}

func (e *EVMClient) callString(ctx context.Context, tokenAddr common.Address, method string, dst *string) error {
	raw, err := e.call(ctx, tokenAddr, method)
	if err != nil {
		return err
	}
	out, err := e.abi.Unpack(method, raw)
	if err != nil || len(out) != 1 {
		return fmt.Errorf("failed to decode %s: %w", method, err)
	}
	s, ok := out[0].(string)
	if !ok {
		return fmt.Errorf("unexpected %s type %T", method, out[0])
	}
	*dst = s
	return nil
}

func (e *EVMClient) call(ctx context.Context, tokenAddr common.Address, method string) ([]byte, error) {
	data, err := e.abi.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}
	raw, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &tokenAddr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	return raw, nil
}

// Close shuts down the underlying RPC connection when one was dialed.
func (e *EVMClient) Close() {
	if e.Client != nil {
		e.Client.Close()
	}
}
