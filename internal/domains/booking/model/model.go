package model

import (
	"seva/shared/model"
	"seva/shared/money"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	BookingNumberPrefix = "BK"

	FieldID                 = "id"
	FieldBookingNumber      = "booking_number"
	FieldResidentID         = "resident_id"
	FieldServiceID          = "service_id"
	FieldSevakID            = "sevak_id"
	FieldScheduledAt        = "scheduled_at"
	FieldAddress            = "address"
	FieldNotes              = "notes"
	FieldBasePrice          = "base_price"
	FieldAdditionalCharges  = "additional_charges"
	FieldDiscount           = "discount"
	FieldTotalAmount        = "total_amount"
	FieldStatus             = "status"
	FieldPaymentStatus      = "payment_status"
	FieldPaymentMethod      = "payment_method"
	FieldPaidAt             = "paid_at"
	FieldCheckInOTP         = "check_in_otp"
	FieldCheckedInAt        = "checked_in_at"
	FieldCheckedOutAt       = "checked_out_at"
	FieldCompletedAt        = "completed_at"
	FieldBeforeMedia        = "before_media"
	FieldAfterMedia         = "after_media"
	FieldAssignmentNotes    = "assignment_notes"
	FieldCompletionNotes    = "completion_notes"
	FieldCancellationReason = "cancellation_reason"
	FieldCancelledAt        = "cancelled_at"
	FieldTimeline           = "timeline"
)

var SortableFields = []string{FieldBookingNumber, FieldScheduledAt, FieldTotalAmount, FieldStatus}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type TimelineEntry struct {
	Status Status    `json:"status"`
	Note   string    `json:"note,omitempty"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

type Timeline []TimelineEntry

type Booking struct {
	ID                 string                `db:"id"`
	BookingNumber      string                `db:"booking_number"`
	ResidentID         string                `db:"resident_id"`
	ServiceID          string                `db:"service_id"`
	SevakID            *string               `db:"sevak_id"`
	ScheduledAt        time.Time             `db:"scheduled_at"`
	Address            string                `db:"address"`
	Notes              *string               `db:"notes"`
	BasePrice          float64               `db:"base_price"`
	AdditionalCharges  float64               `db:"additional_charges"`
	Discount           float64               `db:"discount"`
	TotalAmount        float64               `db:"total_amount"`
	Status             Status                `db:"status"`
	PaymentStatus      PaymentStatus         `db:"payment_status"`
	PaymentMethod      *string               `db:"payment_method"`
	PaidAt             *time.Time            `db:"paid_at"`
	CheckInOTP         string                `db:"check_in_otp"`
	CheckedInAt        *time.Time            `db:"checked_in_at"`
	CheckedOutAt       *time.Time            `db:"checked_out_at"`
	CompletedAt        *time.Time            `db:"completed_at"`
	BeforeMedia        pq.StringArray        `db:"before_media"`
	AfterMedia         pq.StringArray        `db:"after_media"`
	AssignmentNotes    *string               `db:"assignment_notes"`
	CompletionNotes    *string               `db:"completion_notes"`
	CancellationReason *string               `db:"cancellation_reason"`
	CancelledAt        *time.Time            `db:"cancelled_at"`
	Timeline           model.JSONB[Timeline] `db:"timeline"`
	model.Metadata
}

// Total is base + additional - discount rounded to the currency's minor unit.
func Total(basePrice, additionalCharges, discount float64) float64 {
	return money.Round2(basePrice + additionalCharges - discount)
}

func (b Booking) AssignedTo(sevakID string) bool {
	return b.SevakID != nil && *b.SevakID == sevakID
}

// WithEntry returns the timeline extended by one entry. The stored timeline is left untouched.
func (b Booking) WithEntry(status Status, note, actor string, at time.Time) model.JSONB[Timeline] {
	entries := make(Timeline, 0, len(b.Timeline.Data)+1)
	entries = append(entries, b.Timeline.Data...)
	entries = append(entries, TimelineEntry{Status: status, Note: note, Actor: actor, At: at})

	return model.NewJSONB(entries)
}
