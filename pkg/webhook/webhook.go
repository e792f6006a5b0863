// Package webhook verifies that payment notifications delivered to a merchant
// endpoint were really signed by the zkpay operator. The operator's signing
// address is fetched from the service and cached; each notification carries an
// EIP-191 personal-sign signature over its raw body.
package webhook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jonboulle/clockwork"
	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
	"github.com/zkpay/zkpay-sdk-go/pkg/rest"
	"go.uber.org/zap"
)

// DefaultRefreshInterval is how long a fetched operator address is trusted
// before it is refetched.
const DefaultRefreshInterval = 5 * time.Minute

// operatorPath serves the operator's current signing address.
const operatorPath = "/v1/operator"

type operatorResponse struct {
	Address string `json:"address"`
}

// Verifier checks webhook signatures against the operator address published
// by the service.
type Verifier struct {
	api      *rest.Client
	clock    clockwork.Clock
	interval time.Duration

	mu        sync.Mutex
	operator  common.Address
	fetchedAt time.Time
}

// VerifierOption customizes a Verifier.
type VerifierOption func(*Verifier)

// WithRefreshInterval overrides how long the cached operator address stays
// fresh.
func WithRefreshInterval(interval time.Duration) VerifierOption {
	return func(v *Verifier) { v.interval = interval }
}

// WithClock injects the verifier's clock.
func WithClock(clock clockwork.Clock) VerifierOption {
	return func(v *Verifier) { v.clock = clock }
}

// NewVerifier builds a verifier against the service behind api.
func NewVerifier(api *rest.Client, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		api:      api,
		clock:    clockwork.NewRealClock(),
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// OperatorAddress returns the operator's signing address, refetching it when
// the cached copy is older than the refresh interval.
func (v *Verifier) OperatorAddress(ctx context.Context) (common.Address, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.operator != (common.Address{}) && v.clock.Since(v.fetchedAt) < v.interval {
		return v.operator, nil
	}

	var resp operatorResponse
	if err := v.api.Get(ctx, operatorPath, &resp); err != nil {
		if v.operator != (common.Address{}) {
			zap.L().Warn("operator address refetch failed, using cached address", zap.Error(err))
			return v.operator, nil
		}
		return common.Address{}, fmt.Errorf("failed to fetch operator address: %w", err)
	}
	if !common.IsHexAddress(resp.Address) {
		return common.Address{}, fmt.Errorf("service returned malformed operator address %q", resp.Address)
	}

	v.operator = common.HexToAddress(resp.Address)
	v.fetchedAt = v.clock.Now()
	zap.L().Debug("operator address refreshed", zap.String("address", v.operator.Hex()))
	return v.operator, nil
}

// Verify checks that signature (a 0x-prefixed hex EIP-191 personal-sign
// signature) was produced by the operator over the raw payload. A nil return
// means the notification is authentic.
func (v *Verifier) Verify(ctx context.Context, payload []byte, signature string) error {
	operator, err := v.OperatorAddress(ctx)
	if err != nil {
		return err
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("malformed webhook signature: %w", err)
	}
	signer, err := blockchain.RecoverPersonalSigner(payload, sig)
	if err != nil {
		return fmt.Errorf("failed to recover webhook signer: %w", err)
	}
	if signer != operator {
		return fmt.Errorf("webhook signed by %s, expected operator %s", signer.Hex(), operator.Hex())
	}
	return nil
}
