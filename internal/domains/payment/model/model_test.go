package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"seva/internal/domains/payment/model"
)

func TestVerifySignature(t *testing.T) {
	secret := "s3cr3t"
	valid := model.Sign("order_1|pay_1", secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		secret    string
		want      bool
	}{
		{name: "matching signature", orderID: "order_1", paymentID: "pay_1", signature: valid, secret: secret, want: true},
		{name: "different payment", orderID: "order_1", paymentID: "pay_2", signature: valid, secret: secret},
		{name: "different secret", orderID: "order_1", paymentID: "pay_1", signature: valid, secret: "other"},
		{name: "not hex", orderID: "order_1", paymentID: "pay_1", signature: "zz", secret: secret},
		{name: "empty secret never verifies", orderID: "order_1", paymentID: "pay_1", signature: model.Sign("order_1|pay_1", ""), secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.VerifySignature(tt.orderID, tt.paymentID, tt.signature, tt.secret))
		})
	}
}

func TestPayment_AmountMinor(t *testing.T) {
	assert.Equal(t, int64(50000), model.Payment{Amount: 500.00}.AmountMinor())
	assert.Equal(t, int64(19999), model.Payment{Amount: 199.99}.AmountMinor())
}

func TestInclusiveTax(t *testing.T) {
	assert.Equal(t, 180.0, model.InclusiveTax(1180, 18))
	assert.Equal(t, 0.0, model.InclusiveTax(1180, 0))
}

func TestStatus_Settleable(t *testing.T) {
	assert.True(t, model.StatusCreated.Settleable())
	assert.True(t, model.StatusFailed.Settleable())
	assert.False(t, model.StatusSuccess.Settleable())
	assert.False(t, model.StatusRefunded.Settleable())
}
