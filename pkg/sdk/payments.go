package sdk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
	"github.com/zkpay/zkpay-sdk-go/pkg/model"
	"github.com/zkpay/zkpay-sdk-go/pkg/rest"
	"go.uber.org/zap"
)

// paymentsPath is the payment collection endpoint of the zkpay service.
const paymentsPath = "/v1/payments"

// CreatePaymentRequest describes a payment to register. Amount is a decimal
// string in token units ("12.50" USDC, not base units); the SDK converts it
// using the token's resolved decimals.
type CreatePaymentRequest struct {
	ChainID      int64             `json:"chainId"`
	TokenAddress string            `json:"tokenAddress"`
	Amount       string            `json:"amount"`
	Recipient    string            `json:"recipient,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

func (r *CreatePaymentRequest) validate() (decimal.Decimal, error) {
	if r == nil {
		return decimal.Zero, &ValidationError{Field: "request", Reason: "must not be nil"}
	}
	if r.ChainID <= 0 {
		return decimal.Zero, &ValidationError{Field: "chainId", Reason: "must be positive"}
	}
	if !common.IsHexAddress(r.TokenAddress) {
		return decimal.Zero, &ValidationError{Field: "tokenAddress", Reason: "must be a hex contract address"}
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must be a decimal number"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if r.Recipient != "" && !common.IsHexAddress(r.Recipient) {
		return decimal.Zero, &ValidationError{Field: "recipient", Reason: "must be a hex address"}
	}
	return amount, nil
}

type createPaymentWire struct {
	ChainID      int64             `json:"chainId"`
	TokenAddress string            `json:"tokenAddress"`
	Amount       string            `json:"amount"`
	Recipient    string            `json:"recipient,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type listPaymentsResponse struct {
	Payments []model.Payment `json:"payments"`
}

// CreatePayment validates req, resolves the token's decimals, converts the
// amount to base units, and registers the payment with the service.
func (c *Core) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*model.Payment, error) {
	amount, err := req.validate()
	if err != nil {
		return nil, err
	}

	info, err := c.ResolveToken(ctx, req.ChainID, req.TokenAddress)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve payment token: %w", err)
	}
	baseUnits, err := blockchain.ToBaseUnits(amount, info.Decimals)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Reason: err.Error()}
	}

	opts, err := c.authOptions(ctx)
	if err != nil {
		return nil, err
	}

	var payment model.Payment
	err = c.api.Post(ctx, paymentsPath, createPaymentWire{
		ChainID:      req.ChainID,
		TokenAddress: info.Addr().Hex(),
		Amount:       baseUnits.String(),
		Recipient:    req.Recipient,
		Metadata:     req.Metadata,
	}, &payment, opts...)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("payment created",
		zap.String("id", payment.ID),
		zap.String("token", info.Symbol),
		zap.String("amount", baseUnits.String()))
	return &payment, nil
}

// GetPayment retrieves a payment by its service-assigned ID.
func (c *Core) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "must not be empty"}
	}

	opts, err := c.authOptions(ctx)
	if err != nil {
		return nil, err
	}

	var payment model.Payment
	if err := c.api.Get(ctx, paymentsPath+"/"+url.PathEscape(id), &payment, opts...); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments returns payments matching filter.
func (c *Core) ListPayments(ctx context.Context, filter *model.PaymentFilter) ([]model.Payment, error) {
	opts, err := c.authOptions(ctx)
	if err != nil {
		return nil, err
	}
	if q := filterQuery(filter); len(q) > 0 {
		opts = append(opts, rest.WithQuery(q))
	}

	var resp listPaymentsResponse
	if err := c.api.Get(ctx, paymentsPath, &resp, opts...); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// filterQuery converts filter into query values, omitting zero fields.
func filterQuery(filter *model.PaymentFilter) url.Values {
	q := url.Values{}
	if filter == nil {
		return q
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Sender != "" {
		q.Set("sender", filter.Sender)
	}
	if filter.Recipient != "" {
		q.Set("recipient", filter.Recipient)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", strconv.Itoa(filter.Offset))
	}
	return q
}
