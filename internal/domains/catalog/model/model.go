package model

import "seva/shared/model"

const (
	TableName  = "services"
	EntityName = "service"

	FieldID              = "id"
	FieldVendorID        = "vendor_id"
	FieldName            = "name"
	FieldCategory        = "category"
	FieldDescription     = "description"
	FieldBasePrice       = "base_price"
	FieldDurationMinutes = "duration_minutes"
	FieldImage           = "image"
	FieldIsActive        = "is_active"
)

// SortableFields are the columns a listing may be ordered by.
var SortableFields = []string{FieldName, FieldCategory, FieldBasePrice, FieldDurationMinutes}

// Service is a bookable offering listed by a vendor or by the platform itself.
type Service struct {
	ID              string  `db:"id"`
	VendorID        *string `db:"vendor_id"`
	Name            string  `db:"name"`
	Category        string  `db:"category"`
	Description     string  `db:"description"`
	BasePrice       float64 `db:"base_price"`
	DurationMinutes int     `db:"duration_minutes"`
	Image           string  `db:"image"`
	IsActive        bool    `db:"is_active"`
	model.Metadata
}

// OwnedBy reports whether the vendor listed this service.
func (s Service) OwnedBy(vendorID string) bool {
	return s.VendorID != nil && *s.VendorID == vendorID
}
