package dto

import (
	bookingModel "seva/internal/domains/booking/model"
	bookingDto "seva/internal/domains/booking/model/dto"
	"seva/internal/domains/payment/model"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gModel "seva/shared/model"
	"seva/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	BookingID string   `json:"booking_id"       validate:"required,uuid"`
	Amount    *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
}

func (r *CreateOrderRequest) ToModel(userID, orderID, currency string, amount float64, now time.Time) model.Payment {
	return model.Payment{
		ID:             uuid.NewString(),
		BookingID:      r.BookingID,
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		GatewayOrderID: orderID,
		Status:         model.StatusCreated,
		Metadata:       gModel.NewMetadata(now, userID),
	}
}

type CreateOrderResponse struct {
	PaymentID   string  `json:"payment_id"`
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	AmountMinor int64   `json:"amount_minor"`
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
}

type VerifyRequest struct {
	OrderID   string  `json:"order_id"         validate:"required"`
	PaymentID string  `json:"payment_id"       validate:"required"`
	Signature string  `json:"signature"        validate:"required,hexadecimal"`
	Method    *string `json:"method,omitempty" validate:"omitempty,max=50"`
}

type RefundRequest struct {
	PaymentID string   `json:"payment_id"       validate:"required,uuid"`
	Amount    *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reason    string   `json:"reason"           validate:"required,max=500"`
}

// WebhookEvent is the subset of the gateway webhook body the service reacts to.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity WebhookPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type WebhookPayment struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Method           string `json:"method"`
	Status           string `json:"status"`
	Amount           int64  `json:"amount"`
	ErrorDescription string `json:"error_description"`
}

const (
	WebhookPaymentCaptured = "payment.captured"
	WebhookPaymentFailed   = "payment.failed"
)

type PaymentResponse struct {
	ID               string   `json:"id"`
	BookingID        string   `json:"booking_id"`
	UserID           string   `json:"user_id"`
	Amount           float64  `json:"amount"`
	Currency         string   `json:"currency"`
	GatewayOrderID   string   `json:"gateway_order_id"`
	GatewayPaymentID *string  `json:"gateway_payment_id,omitempty"`
	Method           *string  `json:"method,omitempty"`
	Status           string   `json:"status"`
	FailureReason    *string  `json:"failure_reason,omitempty"`
	VerifiedAt       *string  `json:"verified_at,omitempty"`
	RefundID         *string  `json:"refund_id,omitempty"`
	RefundedAmount   *float64 `json:"refunded_amount,omitempty"`
	RefundReason     *string  `json:"refund_reason,omitempty"`
	RefundedAt       *string  `json:"refunded_at,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.UserID = model.UserID
	r.Amount = model.Amount
	r.Currency = model.Currency
	r.GatewayOrderID = model.GatewayOrderID
	r.GatewayPaymentID = model.GatewayPaymentID
	r.Method = model.Method
	r.Status = string(model.Status)
	r.FailureReason = model.FailureReason
	r.VerifiedAt = formatTime(model.VerifiedAt)
	r.RefundID = model.RefundID
	r.RefundedAmount = model.RefundedAmount
	r.RefundReason = model.RefundReason
	r.RefundedAt = formatTime(model.RefundedAt)

	r.Metadata.FromModel(model.Metadata)
}

type InvoiceResponse struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	BookingID     string           `json:"booking_id"`
	PaymentID     string           `json:"payment_id"`
	UserID        string           `json:"user_id"`
	LineItems     []model.LineItem `json:"line_items"`
	Subtotal      float64          `json:"subtotal"`
	Discount      float64          `json:"discount"`
	TaxPercent    float64          `json:"tax_percent"`
	Tax           float64          `json:"tax"`
	Total         float64          `json:"total"`
	Currency      string           `json:"currency"`
	IssuedAt      string           `json:"issued_at"`
}

func (r *InvoiceResponse) FromModel(model model.Invoice) {
	r.ID = model.ID
	r.InvoiceNumber = model.InvoiceNumber
	r.BookingID = model.BookingID
	r.PaymentID = model.PaymentID
	r.UserID = model.UserID
	r.LineItems = append(r.LineItems[:0], model.LineItems.Data...)
	r.Subtotal = model.Subtotal
	r.Discount = model.Discount
	r.TaxPercent = model.TaxPercent
	r.Tax = model.Tax
	r.Total = model.Total
	r.Currency = model.Currency
	r.IssuedAt = timezone.Format(model.IssuedAt, constant.DateFormat)
}

type VerifyResponse struct {
	Payment PaymentResponse            `json:"payment"`
	Booking bookingDto.BookingResponse `json:"booking"`
	Invoice InvoiceResponse            `json:"invoice"`
}

type RefundResponse struct {
	Payment PaymentResponse `json:"payment"`
	Booking struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PaymentStatus string `json:"payment_status"`
	} `json:"booking"`
}

// NewInvoice mirrors the booking's charges. The tax is carved out of the total so the invoice and booking totals always match.
func NewInvoice(number string, booking bookingModel.Booking, payment model.Payment, serviceName string, taxPercent float64, now time.Time) model.Invoice {
	items := model.LineItems{{Description: serviceName, Amount: booking.BasePrice}}
	if booking.AdditionalCharges > 0 {
		items = append(items, model.LineItem{Description: "Additional charges", Amount: booking.AdditionalCharges})
	}

	return model.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: number,
		BookingID:     booking.ID,
		PaymentID:     payment.ID,
		UserID:        booking.ResidentID,
		LineItems:     gModel.NewJSONB(items),
		Subtotal:      bookingModel.Total(booking.BasePrice, booking.AdditionalCharges, 0),
		Discount:      booking.Discount,
		TaxPercent:    taxPercent,
		Tax:           model.InclusiveTax(booking.TotalAmount, taxPercent),
		Total:         booking.TotalAmount,
		Currency:      payment.Currency,
		IssuedAt:      now,
		Metadata:      gModel.NewMetadata(now, payment.UserID),
	}
}

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}

	formatted := timezone.Format(*value, constant.DateFormat)

	return &formatted
}
