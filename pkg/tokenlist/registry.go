package tokenlist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
	"github.com/zkpay/zkpay-sdk-go/pkg/model"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is how long a fetched token list is served from cache
// before the registry refetches it.
const DefaultRefreshInterval = 5 * time.Minute

// MetadataReader reads ERC-20 metadata straight from a contract. It is the
// fallback for tokens absent from the list. *blockchain.EVMClient satisfies it.
type MetadataReader interface {
	TokenMetadata(ctx context.Context, tokenAddr common.Address) (*blockchain.ERC20Metadata, error)
}

// Registry serves token metadata from a periodically refetched token list,
// falling back to on-chain reads for unlisted tokens. A stale list keeps
// being served when a refetch fails; only the very first fetch is fatal.
type Registry struct {
	fetcher  Fetcher
	url      string
	chain    MetadataReader
	clock    clockwork.Clock
	interval time.Duration

	mu        sync.Mutex
	list      *model.TokenList
	fetchedAt time.Time
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithChainReader attaches an on-chain fallback for tokens the list does not
// carry.
func WithChainReader(chain MetadataReader) RegistryOption {
	return func(r *Registry) { r.chain = chain }
}

// WithRefreshInterval overrides how long a fetched list is considered fresh.
func WithRefreshInterval(interval time.Duration) RegistryOption {
	return func(r *Registry) { r.interval = interval }
}

// WithRegistryClock injects the registry's clock. Tests use a fake clock to
// drive cache expiry without sleeping.
func WithRegistryClock(clock clockwork.Clock) RegistryOption {
	return func(r *Registry) { r.clock = clock }
}

// NewRegistry builds a registry that loads the token list behind url through
// fetcher.
func NewRegistry(fetcher Fetcher, url string, opts ...RegistryOption) *Registry {
	r := &Registry{
		fetcher:  fetcher,
		url:      url,
		clock:    clockwork.NewRealClock(),
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the current token list, refetching when the cached copy is
// older than the refresh interval. When a refetch fails and a previous copy
// exists, the stale copy is returned and the failure is logged.
func (r *Registry) List(ctx context.Context) (*model.TokenList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.list != nil && r.clock.Since(r.fetchedAt) < r.interval {
		return r.list, nil
	}

	raw, err := r.fetcher.Fetch(ctx, r.url)
	if err != nil {
		if r.list != nil {
			zap.L().Warn("token list refetch failed, serving stale copy",
				zap.String("url", r.url), zap.Error(err))
			return r.list, nil
		}
		return nil, fmt.Errorf("failed to load token list: %w", err)
	}

	var list model.TokenList
	if err := json.Unmarshal(raw, &list); err != nil {
		if r.list != nil {
			zap.L().Warn("token list document malformed, serving stale copy",
				zap.String("url", r.url), zap.Error(err))
			return r.list, nil
		}
		return nil, fmt.Errorf("failed to parse token list: %w", err)
	}

	r.list = &list
	r.fetchedAt = r.clock.Now()
	zap.L().Debug("token list refreshed",
		zap.String("url", r.url), zap.Int("tokens", len(list.Tokens)))
	return r.list, nil
}

// Resolve returns metadata for the token at (chainID, address): from the token
// list when listed, otherwise read from the contract when an on-chain reader
// is configured.
func (r *Registry) Resolve(ctx context.Context, chainID int64, address string) (*model.TokenInfo, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if info := list.Find(chainID, address); info != nil {
		return info, nil
	}

	if r.chain == nil {
		return nil, fmt.Errorf("token %s on chain %d not found in token list", address, chainID)
	}

	addr := common.HexToAddress(address)
	meta, err := r.chain.TokenMetadata(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata for unlisted token %s: %w", address, err)
	}
	return &model.TokenInfo{
		ChainID:  chainID,
		Address:  addr.Hex(),
		Symbol:   meta.Symbol,
		Name:     meta.Name,
		Decimals: meta.Decimals,
	}, nil
}
