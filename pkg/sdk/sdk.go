// Package sdk exposes the high-level zkpay SDK entry points. It wires together
// the REST client, the sign-in session, the durable credential cache, token
// metadata resolution, and webhook verification.
package sdk

import (
	"context"

	"github.com/zkpay/zkpay-sdk-go/pkg/auth"
	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
	"github.com/zkpay/zkpay-sdk-go/pkg/config"
	"github.com/zkpay/zkpay-sdk-go/pkg/keyval"
	"github.com/zkpay/zkpay-sdk-go/pkg/model"
	"github.com/zkpay/zkpay-sdk-go/pkg/rest"
	"github.com/zkpay/zkpay-sdk-go/pkg/tokenlist"
	"github.com/zkpay/zkpay-sdk-go/pkg/webhook"
	"go.uber.org/zap"
)

// ZkPaySDK is the public surface for creating and querying payments and for
// verifying webhook notifications.
type ZkPaySDK interface {
	// CreatePayment registers a new payment with the service. The amount is
	// given in token units and converted to the token's base units using
	// resolved token metadata.
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*model.Payment, error)

	// GetPayment retrieves a payment by its service-assigned ID.
	GetPayment(ctx context.Context, id string) (*model.Payment, error)

	// ListPayments returns payments matching filter. A nil filter returns
	// everything the service will page out.
	ListPayments(ctx context.Context, filter *model.PaymentFilter) ([]model.Payment, error)

	// ResolveToken returns metadata for the token at (chainID, address).
	ResolveToken(ctx context.Context, chainID int64, address string) (*model.TokenInfo, error)

	// WebhookVerifier returns the verifier for incoming payment notifications.
	WebhookVerifier() *webhook.Verifier

	// Close releases resources associated with the SDK instance.
	Close()
}

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Core is the concrete SDK implementation.
type Core struct {
	*config.Config

	api      *rest.Client
	identity auth.Identity
	session  *auth.Session
	registry *tokenlist.Registry
	verifier *webhook.Verifier
	evm      *blockchain.EVMClient
	kv       keyval.Store
}

// NewSDK initializes the SDK with validated configuration. Optional pieces
// degrade instead of failing: without a private key all calls run
// unauthenticated, without an RPC endpoint unlisted tokens cannot be resolved,
// and without a cache path credentials live in memory only. Only an invalid
// configuration aborts.
func NewSDK(cfg *config.Config) ZkPaySDK {
	if err := cfg.Validate(); err != nil {
		zap.L().Fatal("Invalid config", zap.Error(err))
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	if cfg.Debug {
		if logger, err := zap.NewDevelopment(); err == nil {
			zap.ReplaceGlobals(logger)
		}
	}

	c := &Core{
		Config: cfg,
		api:    rest.NewClient(cfg.APIURL, cfg.Timeouts.HTTPRequest),
	}

	if cfg.PrivateKey != "" {
		identity, err := auth.NewPrivateKeyIdentity(cfg.PrivateKey)
		if err != nil {
			zap.L().Warn("authenticated calls disabled: private key parsing failed", zap.Error(err))
		} else {
			c.identity = identity
			if cfg.Debug {
				zap.L().Debug("signer address", zap.String("addr", identity.Address().Hex()))
			}
		}
	}

	if cfg.CachePath != "" && c.identity != nil {
		kv, err := keyval.OpenBolt(cfg.CachePath)
		if err != nil {
			zap.L().Warn("credential cache disabled: cannot open cache file",
				zap.String("path", cfg.CachePath), zap.Error(err))
		} else {
			c.kv = kv
		}
	}

	authAPI := rest.NewClient(cfg.APIURL, cfg.Timeouts.AuthExchange)
	c.session = auth.NewSession(authAPI, c.identity, cfg.Origin, cfg.Network.ChainID,
		auth.WithStore(auth.NewCredentialStore(c.kv, c.identity, nil)))

	registryOpts := []tokenlist.RegistryOption{
		tokenlist.WithRefreshInterval(cfg.Timeouts.TokenListRefresh),
	}
	if cfg.RPCAddr != "" {
		evm, err := blockchain.InitEvm(cfg.RPCAddr)
		if err != nil {
			zap.L().Warn("on-chain token fallback disabled: RPC dial failed",
				zap.String("rpc", cfg.RPCAddr), zap.Error(err))
		} else {
			c.evm = evm
			registryOpts = append(registryOpts, tokenlist.WithChainReader(evm))
		}
	}
	fetcher := tokenlist.NewFetcher(cfg.IpfsURL, cfg.Timeouts.TokenListFetch)
	c.registry = tokenlist.NewRegistry(fetcher, cfg.TokenListURL, registryOpts...)

	c.verifier = webhook.NewVerifier(c.api,
		webhook.WithRefreshInterval(cfg.Timeouts.OperatorRefresh))

	return c
}

// ResolveToken returns metadata for the token at (chainID, address).
func (c *Core) ResolveToken(ctx context.Context, chainID int64, address string) (*model.TokenInfo, error) {
	return c.registry.Resolve(ctx, chainID, address)
}

// WebhookVerifier returns the verifier for incoming payment notifications.
func (c *Core) WebhookVerifier() *webhook.Verifier {
	return c.verifier
}

// Close releases the RPC connection and the credential cache file.
func (c *Core) Close() {
	if c.evm != nil {
		c.evm.Close()
	}
	if c.kv != nil {
		if err := c.kv.Close(); err != nil {
			zap.L().Error("failed to close credential cache", zap.Error(err))
		}
	}
}

// authOptions runs the sign-in lifecycle and returns the request options for a
// protected call: the bearer token when one is held, nothing in
// unauthenticated mode.
func (c *Core) authOptions(ctx context.Context) ([]rest.Option, error) {
	if err := c.session.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}
	if token, ok := c.session.CredentialToken(); ok {
		return []rest.Option{rest.WithBearer(token)}, nil
	}
	return nil, nil
}
