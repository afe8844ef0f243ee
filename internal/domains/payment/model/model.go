package model

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"seva/shared/model"
	"seva/shared/money"
	"time"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID               = "id"
	FieldBookingID        = "booking_id"
	FieldUserID           = "user_id"
	FieldAmount           = "amount"
	FieldCurrency         = "currency"
	FieldGatewayOrderID   = "gateway_order_id"
	FieldGatewayPaymentID = "gateway_payment_id"
	FieldGatewaySignature = "gateway_signature"
	FieldMethod           = "method"
	FieldStatus           = "status"
	FieldFailureReason    = "failure_reason"
	FieldVerifiedAt       = "verified_at"
	FieldRefundID         = "refund_id"
	FieldRefundedAmount   = "refunded_amount"
	FieldRefundReason     = "refund_reason"
	FieldRefundedAt       = "refunded_at"
)

type Status string

const (
	StatusCreated  Status = "created"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

func Statuses() []Status {
	return []Status{StatusCreated, StatusSuccess, StatusFailed, StatusRefunded}
}

// Settleable reports whether a verified gateway payment may still be applied. A failed attempt can be retried on the same order.
func (s Status) Settleable() bool {
	return s == StatusCreated || s == StatusFailed
}

type Payment struct {
	ID               string     `db:"id"`
	BookingID        string     `db:"booking_id"`
	UserID           string     `db:"user_id"`
	Amount           float64    `db:"amount"`
	Currency         string     `db:"currency"`
	GatewayOrderID   string     `db:"gateway_order_id"`
	GatewayPaymentID *string    `db:"gateway_payment_id"`
	GatewaySignature *string    `db:"gateway_signature"`
	Method           *string    `db:"method"`
	Status           Status     `db:"status"`
	FailureReason    *string    `db:"failure_reason"`
	VerifiedAt       *time.Time `db:"verified_at"`
	RefundID         *string    `db:"refund_id"`
	RefundedAmount   *float64   `db:"refunded_amount"`
	RefundReason     *string    `db:"refund_reason"`
	RefundedAt       *time.Time `db:"refunded_at"`
	model.Metadata
}

func (p Payment) AmountMinor() int64 {
	return money.ToMinor(p.Amount)
}

// Sign returns the hex HMAC-SHA256 of message under secret.
func Sign(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))

	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a checkout signature, computed over "orderID|paymentID".
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	return VerifyPayload([]byte(orderID+"|"+paymentID), signature, secret)
}

// VerifyPayload checks a hex HMAC-SHA256 signature over payload in constant time.
func VerifyPayload(payload []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	return hmac.Equal(mac.Sum(nil), expected)
}
