// Package gateway talks to the hosted payment gateway. Signature checks are done locally by the payment domain.
package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"seva/config"
	"seva/infras/otel"
	"seva/shared/constant"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog/log"
)

var ErrMalformedResponse = errors.New("malformed gateway response")

const (
	otelAttrReceipt   = "gateway.receipt"
	otelAttrPaymentID = "gateway.payment_id"
	otelAttrAmount    = "gateway.amount_minor"
)

type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
	Status      string
}

type Refund struct {
	ID          string
	PaymentID   string
	AmountMinor int64
	Status      string
}

type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (Order, error)
	Refund(ctx context.Context, paymentID string, amountMinor int64) (Refund, error)
	KeyID() string
}

type razorpayGateway struct {
	client *razorpay.Client
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(config.Payment.KeyID, config.Payment.KeySecret),
		config: config,
		otel:   otel,
	}
}

func (g *razorpayGateway) KeyID() string {
	return g.config.Payment.KeyID
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (order Order, err error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".CreateOrder")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrReceipt: receipt,
		otelAttrAmount:  int(amountMinor),
	})

	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		log.Error().Err(err).Str("receipt", receipt).Msg("failed to create gateway order")

		return order, fmt.Errorf("failed to create gateway order: %w", err)
	}

	order.ID = stringField(body, "id")
	order.AmountMinor = int64Field(body, "amount")
	order.Currency = stringField(body, "currency")
	order.Receipt = stringField(body, "receipt")
	order.Status = stringField(body, "status")

	if order.ID == constant.Empty {
		return order, ErrMalformedResponse
	}

	return order, nil
}

func (g *razorpayGateway) Refund(ctx context.Context, paymentID string, amountMinor int64) (refund Refund, err error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrPaymentID: paymentID,
		otelAttrAmount:    int(amountMinor),
	})

	body, err := g.client.Payment.Refund(paymentID, int(amountMinor), nil, nil)
	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to refund gateway payment")

		return refund, fmt.Errorf("failed to refund gateway payment: %w", err)
	}

	refund.ID = stringField(body, "id")
	refund.PaymentID = stringField(body, "payment_id")
	refund.AmountMinor = int64Field(body, "amount")
	refund.Status = stringField(body, "status")

	if refund.ID == constant.Empty {
		return refund, ErrMalformedResponse
	}

	return refund, nil
}

func stringField(body map[string]interface{}, key string) string {
	value, _ := body[key].(string)

	return value
}

// int64Field reads a JSON number, which the SDK decodes as float64.
func int64Field(body map[string]interface{}, key string) int64 {
	switch value := body[key].(type) {
	case float64:
		return int64(value)
	case int:
		return int64(value)
	case int64:
		return value
	default:
		return 0
	}
}
