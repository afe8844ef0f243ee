package dto

import (
	"fmt"
	"mime/multipart"
	"seva/internal/domains/booking/model"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	gModel "seva/shared/model"
	"seva/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateBookingRequest struct {
	ServiceID         string  `json:"service_id"         validate:"required,uuid"`
	ScheduledAt       string  `json:"scheduled_at"       validate:"required"`
	Address           string  `json:"address"            validate:"required,max=500"`
	Notes             *string `json:"notes,omitempty"    validate:"omitempty,max=1000"`
	AdditionalCharges float64 `json:"additional_charges" validate:"omitempty,min=0"`
	Discount          float64 `json:"discount"           validate:"omitempty,min=0"`
}

// SetsPricing reports whether the request adjusts the price. Only staff may do that.
func (c *CreateBookingRequest) SetsPricing() bool {
	return c.AdditionalCharges != 0 || c.Discount != 0
}

// BookingDraft carries the values the service resolves before a booking row can be built.
type BookingDraft struct {
	ResidentID    string
	BookingNumber string
	OTP           string
	BasePrice     float64
	ScheduledAt   time.Time
	Now           time.Time
}

func (c *CreateBookingRequest) ToModel(draft BookingDraft) model.Booking {
	booking := model.Booking{
		ID:                uuid.NewString(),
		BookingNumber:     draft.BookingNumber,
		ResidentID:        draft.ResidentID,
		ServiceID:         c.ServiceID,
		ScheduledAt:       draft.ScheduledAt,
		Address:           c.Address,
		Notes:             c.Notes,
		BasePrice:         draft.BasePrice,
		AdditionalCharges: c.AdditionalCharges,
		Discount:          c.Discount,
		TotalAmount:       model.Total(draft.BasePrice, c.AdditionalCharges, c.Discount),
		Status:            model.StatusPending,
		PaymentStatus:     model.PaymentPending,
		CheckInOTP:        draft.OTP,
		BeforeMedia:       pq.StringArray{},
		AfterMedia:        pq.StringArray{},
		Metadata:          gModel.NewMetadata(draft.Now, draft.ResidentID),
	}

	booking.Timeline = booking.WithEntry(model.StatusPending, "booking created", draft.ResidentID, draft.Now)

	return booking
}

// ParseSchedule reads an RFC3339 timestamp.
func ParseSchedule(value string) (time.Time, error) {
	scheduledAt, err := time.Parse(constant.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduled_at must be RFC3339: %w", err)
	}

	return scheduledAt, nil
}

type RescheduleRequest struct {
	ScheduledAt       string   `json:"scheduled_at"                 validate:"required"`
	AdditionalCharges *float64 `json:"additional_charges,omitempty" validate:"omitempty,min=0"`
	Discount          *float64 `json:"discount,omitempty"           validate:"omitempty,min=0"`
	Reason            string   `json:"reason"                       validate:"omitempty,max=500"`
}

func (r *RescheduleRequest) SetsPricing() bool {
	return r.AdditionalCharges != nil || r.Discount != nil
}

// Pricing returns the charges after applying the request on top of the booking's current ones.
func (r *RescheduleRequest) Pricing(current model.Booking) (additional, discount, total float64) {
	additional, discount = current.AdditionalCharges, current.Discount

	if r.AdditionalCharges != nil {
		additional = *r.AdditionalCharges
	}

	if r.Discount != nil {
		discount = *r.Discount
	}

	return additional, discount, model.Total(current.BasePrice, additional, discount)
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type AssignSevakRequest struct {
	SevakID string  `json:"sevak_id"        validate:"required,uuid"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CheckInRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	OTP       string `json:"otp"        validate:"required,numeric,min=4,max=8"`
}

type CheckOutRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

// CompleteRequest is read from a multipart form with fields before, after and notes.
type CompleteRequest struct {
	Notes  *string                 `validate:"omitempty,max=1000"`
	Before []*multipart.FileHeader `validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	After  []*multipart.FileHeader `validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
}

// Filter narrows staff listings. Empty fields are ignored.
type Filter struct {
	Status     string `validate:"omitempty"`
	SevakID    string `validate:"omitempty,uuid"`
	ResidentID string `validate:"omitempty,uuid"`
	From       string `validate:"omitempty"`
	To         string `validate:"omitempty"`
}

func (f *Filter) ToFilterGroup() (gDto.FilterGroup, error) {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Status != constant.Empty {
		status := model.Status(f.Status)
		if !status.Valid() {
			return group, fmt.Errorf("unknown booking status %q", f.Status)
		}

		group.Filters = append(group.Filters, eq(model.FieldStatus, status))
	}

	if f.SevakID != constant.Empty {
		group.Filters = append(group.Filters, eq(model.FieldSevakID, f.SevakID))
	}

	if f.ResidentID != constant.Empty {
		group.Filters = append(group.Filters, eq(model.FieldResidentID, f.ResidentID))
	}

	for _, bound := range []struct {
		value    string
		operator string
		argName  string
	}{
		{f.From, gDto.FilterOperatorGreaterEq, "scheduled_from"},
		{f.To, gDto.FilterOperatorLessEq, "scheduled_to"},
	} {
		if bound.value == constant.Empty {
			continue
		}

		at, err := timezone.Parse(constant.DateOnlyFormat, bound.value)
		if err != nil {
			return group, fmt.Errorf("%s must be YYYY-MM-DD: %w", bound.argName, err)
		}

		if bound.operator == gDto.FilterOperatorLessEq {
			at = timezone.EndOfDay(at)
		}

		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  bound.argName,
			Field:    model.FieldScheduledAt,
			Value:    at,
			Operator: bound.operator,
			Table:    model.TableName,
		})
	}

	return group, nil
}

func eq(field string, value any) gDto.Filter {
	return gDto.Eq(model.TableName, field, value)
}

type Pricing struct {
	BasePrice         float64 `json:"base_price"`
	AdditionalCharges float64 `json:"additional_charges"`
	Discount          float64 `json:"discount"`
	TotalAmount       float64 `json:"total_amount"`
}

type TimelineEntry struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
	Actor  string `json:"actor"`
	At     string `json:"at"`
}

type BookingResponse struct {
	ID                 string          `json:"id"`
	BookingNumber      string          `json:"booking_number"`
	ResidentID         string          `json:"resident_id"`
	ServiceID          string          `json:"service_id"`
	SevakID            *string         `json:"sevak_id,omitempty"`
	ScheduledAt        string          `json:"scheduled_at"`
	Address            string          `json:"address"`
	Notes              *string         `json:"notes,omitempty"`
	Pricing            Pricing         `json:"pricing"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"payment_status"`
	PaymentMethod      *string         `json:"payment_method,omitempty"`
	PaidAt             *string         `json:"paid_at,omitempty"`
	CheckInOTP         string          `json:"check_in_otp,omitempty"`
	CheckedInAt        *string         `json:"checked_in_at,omitempty"`
	CheckedOutAt       *string         `json:"checked_out_at,omitempty"`
	CompletedAt        *string         `json:"completed_at,omitempty"`
	BeforeMedia        []string        `json:"before_media"`
	AfterMedia         []string        `json:"after_media"`
	AssignmentNotes    *string         `json:"assignment_notes,omitempty"`
	CompletionNotes    *string         `json:"completion_notes,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	CancelledAt        *string         `json:"cancelled_at,omitempty"`
	Timeline           []TimelineEntry `json:"timeline"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.BookingNumber = model.BookingNumber
	r.ResidentID = model.ResidentID
	r.ServiceID = model.ServiceID
	r.SevakID = model.SevakID
	r.ScheduledAt = timezone.Format(model.ScheduledAt, constant.DateFormat)
	r.Address = model.Address
	r.Notes = model.Notes
	r.Pricing = Pricing{
		BasePrice:         model.BasePrice,
		AdditionalCharges: model.AdditionalCharges,
		Discount:          model.Discount,
		TotalAmount:       model.TotalAmount,
	}
	r.Status = string(model.Status)
	r.PaymentStatus = string(model.PaymentStatus)
	r.PaymentMethod = model.PaymentMethod
	r.PaidAt = formatTime(model.PaidAt)
	r.CheckInOTP = model.CheckInOTP
	r.CheckedInAt = formatTime(model.CheckedInAt)
	r.CheckedOutAt = formatTime(model.CheckedOutAt)
	r.CompletedAt = formatTime(model.CompletedAt)
	r.BeforeMedia = append([]string{}, model.BeforeMedia...)
	r.AfterMedia = append([]string{}, model.AfterMedia...)
	r.AssignmentNotes = model.AssignmentNotes
	r.CompletionNotes = model.CompletionNotes
	r.CancellationReason = model.CancellationReason
	r.CancelledAt = formatTime(model.CancelledAt)

	r.Timeline = make([]TimelineEntry, len(model.Timeline.Data))
	for i, entry := range model.Timeline.Data {
		r.Timeline[i] = TimelineEntry{
			Status: string(entry.Status),
			Note:   entry.Note,
			Actor:  entry.Actor,
			At:     timezone.Format(entry.At, constant.DateFormat),
		}
	}

	r.Metadata.FromModel(model.Metadata)
}

// HideOTP drops the check-in code. Only the resident gets to see it so the sevak must ask for it on site.
func (r *BookingResponse) HideOTP() {
	r.CheckInOTP = constant.Empty
}

type CancelResponse struct {
	BookingResponse
	RefundExpected bool `json:"refund_expected"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

// FromModels builds a listing. Listings never expose check-in codes.
func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
		r.Bookings[i].HideOTP()
	}
}

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}

	formatted := timezone.Format(*value, constant.DateFormat)

	return &formatted
}
