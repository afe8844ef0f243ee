package model

import (
	"seva/shared/model"
	"time"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID          = "id"
	FieldRecipientID = "recipient_id"
	FieldType        = "type"
	FieldIsRead      = "is_read"
	FieldReadAt      = "read_at"
)

type Type string

const (
	TypeBookingCreated       Type = "booking_created"
	TypeBookingAssigned      Type = "booking_assigned"
	TypeBookingStatusChanged Type = "booking_status_changed"
	TypeBookingCancelled     Type = "booking_cancelled"
	TypePaymentSuccess       Type = "payment_success"
	TypePaymentFailed        Type = "payment_failed"
	TypePaymentRefunded      Type = "payment_refunded"
	TypeSevakBlacklisted     Type = "sevak_blacklisted"
	TypeSevakReinstated      Type = "sevak_reinstated"
)

func Types() []Type {
	return []Type{
		TypeBookingCreated,
		TypeBookingAssigned,
		TypeBookingStatusChanged,
		TypeBookingCancelled,
		TypePaymentSuccess,
		TypePaymentFailed,
		TypePaymentRefunded,
		TypeSevakBlacklisted,
		TypeSevakReinstated,
	}
}

func (t Type) Valid() bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}

	return false
}

type Payload map[string]any

type Notification struct {
	ID          string               `db:"id"`
	RecipientID string               `db:"recipient_id"`
	Type        Type                 `db:"type"`
	Title       string               `db:"title"`
	Body        string               `db:"body"`
	Payload     model.JSONB[Payload] `db:"payload"`
	IsRead      bool                 `db:"is_read"`
	ReadAt      *time.Time           `db:"read_at"`
	model.Metadata
}

// Event is what workflows emit and what the notifier consumes from the broker.
type Event struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Payload     Payload   `json:"payload,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
