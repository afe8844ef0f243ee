package model

import (
	"seva/shared/model"
	"seva/shared/money"
	"time"
)

const (
	InvoiceTableName  = "invoices"
	InvoiceEntityName = "invoice"

	InvoiceNumberPrefix = "INV"

	FieldInvoiceID        = "id"
	FieldInvoiceNumber    = "invoice_number"
	FieldInvoiceBookingID = "booking_id"
	FieldInvoicePaymentID = "payment_id"
)

type LineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type LineItems []LineItem

type Invoice struct {
	ID            string                 `db:"id"`
	InvoiceNumber string                 `db:"invoice_number"`
	BookingID     string                 `db:"booking_id"`
	PaymentID     string                 `db:"payment_id"`
	UserID        string                 `db:"user_id"`
	LineItems     model.JSONB[LineItems] `db:"line_items"`
	Subtotal      float64                `db:"subtotal"`
	Discount      float64                `db:"discount"`
	TaxPercent    float64                `db:"tax_percent"`
	Tax           float64                `db:"tax"`
	Total         float64                `db:"total"`
	Currency      string                 `db:"currency"`
	IssuedAt      time.Time              `db:"issued_at"`
	model.Metadata
}

// InclusiveTax splits the tax out of a total that already includes it.
func InclusiveTax(total, percent float64) float64 {
	if percent <= 0 {
		return 0
	}

	return money.Round2(total - total/(1+percent/100))
}
