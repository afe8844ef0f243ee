package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"seva/config"
	"seva/infras/otel"
	"seva/infras/s3"
	"seva/internal/domains/booking/model"
	"seva/internal/domains/booking/model/dto"
	"seva/internal/domains/booking/repository"
	catalogModel "seva/internal/domains/catalog/model"
	catalogRepo "seva/internal/domains/catalog/repository"
	notificationModel "seva/internal/domains/notification/model"
	notificationService "seva/internal/domains/notification/service"
	userModel "seva/internal/domains/user/model"
	userRepo "seva/internal/domains/user/repository"
	"seva/shared"
	"seva/shared/cache"
	"seva/shared/code"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/principal"
	"seva/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	defaultOTPLength      = 4
	defaultMaxMediaFiles  = 5
	defaultMediaDirectory = "bookings"
)

var (
	ErrBookingNotAssignable = &failure.Failure{Code: http.StatusConflict, Message: "booking must be pending without a sevak to be assigned"}
	ErrSevakIneligible      = &failure.Failure{Code: http.StatusConflict, Message: "sevak must be active, verified and not blacklisted"}
	ErrInvalidOTP           = &failure.Failure{Code: http.StatusBadRequest, Message: "invalid check-in OTP"}
	ErrBookingChanged       = &failure.Failure{Code: http.StatusConflict, Message: "booking was changed by another request, reload and retry"}
	ErrNotAssignedSevak     = &failure.Failure{Code: http.StatusForbidden, Message: "booking is not assigned to you"}
	ErrPricingRestricted    = &failure.Failure{Code: http.StatusForbidden, Message: "only staff may set additional charges or discount"}
	ErrPricingLocked        = &failure.Failure{Code: http.StatusConflict, Message: "pricing is fixed once payment has been taken"}
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	MyBookings(ctx context.Context, req gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelRequest) (dto.CancelResponse, error)
	Assign(ctx context.Context, id string, req dto.AssignSevakRequest) (dto.BookingResponse, error)
	SevakJobs(ctx context.Context, req gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	CheckIn(ctx context.Context, req dto.CheckInRequest) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, req dto.CheckOutRequest) (dto.BookingResponse, error)
	Complete(ctx context.Context, id string, req dto.CompleteRequest) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	catalogRepo catalogRepo.Service
	userRepo    userRepo.User
	notifier    notificationService.Notification
	s3          s3.S3
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	catalogRepo catalogRepo.Service,
	userRepo userRepo.User,
	notifier notificationService.Notification,
	s3 s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		s3:          s3,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// InvalidateCaches drops every cached view of a booking. Other domains call it after writing to bookings.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, id string) {
	if id != constant.Empty {
		if err := redisCache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Str("booking_id", id).Msg("failed to delete booking cache")
		}
	}

	shared.InvalidateCaches(ctx, redisCache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, redisCache, cacheCountBooking)
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	if req.SetsPricing() && !caller.IsStaff() {
		return res, ErrPricingRestricted
	}

	now := timezone.Now()

	scheduledAt, err := dto.ParseSchedule(req.ScheduledAt)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if !scheduledAt.After(now) {
		return res, failure.BadRequestFromString("scheduled_at must be in the future")
	}

	service, err := s.catalogRepo.Get(ctx, shared.FilterByID(req.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == constant.Empty {
		return res, failure.NotFound("service not found")
	}

	if !service.IsActive {
		return res, failure.BadRequestFromString("service is not available for booking")
	}

	if model.Total(service.BasePrice, req.AdditionalCharges, req.Discount) < 0 {
		return res, failure.BadRequestFromString("discount cannot exceed the booking charges")
	}

	bookingNumber, err := code.Reference(model.BookingNumberPrefix, now)
	if err != nil {
		return res, fmt.Errorf("failed to generate booking number: %w", err)
	}

	otp, err := code.Numeric(s.otpLength())
	if err != nil {
		return res, fmt.Errorf("failed to generate check-in otp: %w", err)
	}

	booking := req.ToModel(dto.BookingDraft{
		ResidentID:    caller.UserID,
		BookingNumber: bookingNumber,
		OTP:           otp,
		BasePrice:     service.BasePrice,
		ScheduledAt:   scheduledAt,
		Now:           now,
	})

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidate(ctx, constant.Empty)
	s.notify(ctx, booking.ResidentID, notificationModel.TypeBookingCreated, "Booking confirmed",
		fmt.Sprintf("Your booking %s for %s is placed", booking.BookingNumber, service.Name), booking)

	res.FromModel(booking)

	return res, nil
}

// Get returns a booking to its resident, its assigned sevak or staff. Only the resident sees the check-in OTP.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.load(ctx, id)
		if err != nil {
			return res, err
		}

		res.FromModel(booking)

		cached := res

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, cached, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	assignedSevak := res.SevakID != nil && *res.SevakID == caller.UserID
	if !caller.IsStaff() && res.ResidentID != caller.UserID && !assignedSevak {
		return dto.BookingResponse{}, failure.ResourceRestrictedError
	}

	if res.ResidentID != caller.UserID {
		res.HideOTP()
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) MyBookings(ctx context.Context, req gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	filter, err := (&dto.Filter{ResidentID: caller.UserID, Status: status}).ToFilterGroup()
	if err != nil {
		return res, failure.BadRequest(err)
	}

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) SevakJobs(ctx context.Context, req gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	filter, err := (&dto.Filter{SevakID: caller.UserID, Status: status}).ToFilterGroup()
	if err != nil {
		return res, failure.BadRequest(err)
	}

	return s.GetAll(ctx, req, filter)
}

// Reschedule moves a pending or assigned booking and recomputes its total.
func (s *serviceImpl) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !caller.IsStaff() && booking.ResidentID != caller.UserID {
		return res, failure.ResourceRestrictedError
	}

	if booking.Status != model.StatusPending && booking.Status != model.StatusAssigned {
		return res, failure.Conflict(fmt.Sprintf("a %s booking cannot be rescheduled", booking.Status))
	}

	if req.SetsPricing() {
		if !caller.IsStaff() {
			return res, ErrPricingRestricted
		}

		if booking.PaymentStatus != model.PaymentPending {
			return res, ErrPricingLocked
		}
	}

	now := timezone.Now()

	scheduledAt, err := dto.ParseSchedule(req.ScheduledAt)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if !scheduledAt.After(now) {
		return res, failure.BadRequestFromString("scheduled_at must be in the future")
	}

	additional, discount, total := req.Pricing(booking)
	if total < 0 {
		return res, failure.BadRequestFromString("discount cannot exceed the booking charges")
	}

	note := "rescheduled to " + timezone.Format(scheduledAt, constant.DateFormat)
	if req.Reason != constant.Empty {
		note += ": " + req.Reason
	}

	timeline := booking.WithEntry(booking.Status, note, caller.Actor(), now)

	fields := s.changes(caller.Actor(), now, map[string]any{
		model.FieldScheduledAt:       scheduledAt,
		model.FieldAdditionalCharges: additional,
		model.FieldDiscount:          discount,
		model.FieldTotalAmount:       total,
		model.FieldTimeline:          timeline,
	})

	filter := guard(booking)
	filter.Filters = append(filter.Filters, gDto.Eq(model.TableName, constant.FieldModifiedAt, booking.ModifiedAt))

	if err = s.apply(ctx, booking.ID, fields, filter, ErrBookingChanged); err != nil {
		return res, err
	}

	booking.ScheduledAt = scheduledAt
	booking.AdditionalCharges, booking.Discount, booking.TotalAmount = additional, discount, total
	booking.Timeline = timeline
	booking.ModifiedAt, booking.ModifiedBy = now, caller.Actor()

	if booking.SevakID != nil {
		s.notify(ctx, *booking.SevakID, notificationModel.TypeBookingStatusChanged, "Job rescheduled", note, booking)
	}

	if booking.ResidentID != caller.UserID {
		s.notify(ctx, booking.ResidentID, notificationModel.TypeBookingStatusChanged, "Booking rescheduled", note, booking)
	}

	res.FromModel(booking)
	s.redact(&res, caller)

	return res, nil
}

// Cancel moves a pending or assigned booking to cancelled. A paid booking still needs an explicit refund.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelRequest) (res dto.CancelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if !caller.IsStaff() && booking.ResidentID != caller.UserID {
		return res, failure.ResourceRestrictedError
	}

	if err = model.Transition(booking.Status, model.StatusCancelled); err != nil {
		return res, err
	}

	now := timezone.Now()
	timeline := booking.WithEntry(model.StatusCancelled, req.Reason, caller.Actor(), now)

	fields := s.changes(caller.Actor(), now, map[string]any{
		model.FieldStatus:             model.StatusCancelled,
		model.FieldCancellationReason: req.Reason,
		model.FieldCancelledAt:        now,
		model.FieldTimeline:           timeline,
	})

	if err = s.apply(ctx, booking.ID, fields, guard(booking), ErrBookingChanged); err != nil {
		return res, err
	}

	booking.Status = model.StatusCancelled
	booking.CancellationReason = &req.Reason
	booking.CancelledAt = &now
	booking.Timeline = timeline
	booking.ModifiedAt, booking.ModifiedBy = now, caller.Actor()

	body := fmt.Sprintf("Booking %s was cancelled: %s", booking.BookingNumber, req.Reason)
	s.notify(ctx, booking.ResidentID, notificationModel.TypeBookingCancelled, "Booking cancelled", body, booking)

	if booking.SevakID != nil {
		s.notify(ctx, *booking.SevakID, notificationModel.TypeBookingCancelled, "Job cancelled", body, booking)
	}

	res.FromModel(booking)
	s.redact(&res.BookingResponse, caller)
	res.RefundExpected = booking.PaymentStatus == model.PaymentPaid

	if res.RefundExpected {
		log.Info().Str("booking_id", booking.ID).Msg("paid booking cancelled, refund pending")
	}

	return res, nil
}

// Assign gives a pending booking to an eligible sevak. The write only lands if the booking is still pending and unassigned.
func (s *serviceImpl) Assign(ctx context.Context, id string, req dto.AssignSevakRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := principal.ActorFromContext(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status != model.StatusPending || booking.SevakID != nil {
		return res, ErrBookingNotAssignable
	}

	now := timezone.Now()

	sevak, err := s.userRepo.Get(ctx, shared.FilterByID(req.SevakID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get sevak")

		return res, fmt.Errorf("failed to get sevak: %w", err)
	}

	if sevak.ID == constant.Empty {
		return res, failure.NotFound("sevak not found")
	}

	if !sevak.Assignable(now) {
		return res, ErrSevakIneligible
	}

	note := "assigned to sevak " + sevak.ID
	if req.Notes != nil && *req.Notes != constant.Empty {
		note += ": " + *req.Notes
	}

	timeline := booking.WithEntry(model.StatusAssigned, note, actor, now)

	fields := s.changes(actor, now, map[string]any{
		model.FieldSevakID:         sevak.ID,
		model.FieldStatus:          model.StatusAssigned,
		model.FieldAssignmentNotes: req.Notes,
		model.FieldTimeline:        timeline,
	})

	filter := guard(booking)
	filter.Filters = append(filter.Filters, gDto.IsNull(model.TableName, model.FieldSevakID))

	if err = s.apply(ctx, booking.ID, fields, filter, ErrBookingNotAssignable); err != nil {
		return res, err
	}

	booking.SevakID = &sevak.ID
	booking.Status = model.StatusAssigned
	booking.AssignmentNotes = req.Notes
	booking.Timeline = timeline
	booking.ModifiedAt, booking.ModifiedBy = now, actor

	s.notify(ctx, sevak.ID, notificationModel.TypeBookingAssigned, "New job assigned",
		fmt.Sprintf("Booking %s is scheduled for %s", booking.BookingNumber, timezone.Format(booking.ScheduledAt, constant.DateFormat)), booking)
	s.notify(ctx, booking.ResidentID, notificationModel.TypeBookingStatusChanged, "Sevak assigned",
		fmt.Sprintf("A sevak has been assigned to booking %s", booking.BookingNumber), booking)

	res.FromModel(booking)
	res.HideOTP()

	return res, nil
}

// CheckIn starts the job once the sevak presents the resident's OTP.
func (s *serviceImpl) CheckIn(ctx context.Context, req dto.CheckInRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, booking, err := s.loadAssigned(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if err = model.Transition(booking.Status, model.StatusInProgress); err != nil {
		return res, err
	}

	if subtle.ConstantTimeCompare([]byte(req.OTP), []byte(booking.CheckInOTP)) != 1 {
		log.Warn().Str("booking_id", booking.ID).Str("sevak_id", caller.UserID).Msg("check-in attempted with wrong otp")

		return res, ErrInvalidOTP
	}

	now := timezone.Now()
	timeline := booking.WithEntry(model.StatusInProgress, "sevak checked in", caller.Actor(), now)

	fields := s.changes(caller.Actor(), now, map[string]any{
		model.FieldStatus:      model.StatusInProgress,
		model.FieldCheckedInAt: now,
		model.FieldTimeline:    timeline,
	})

	if err = s.apply(ctx, booking.ID, fields, guard(booking), ErrBookingChanged); err != nil {
		return res, err
	}

	booking.Status = model.StatusInProgress
	booking.CheckedInAt = &now
	booking.Timeline = timeline
	booking.ModifiedAt, booking.ModifiedBy = now, caller.Actor()

	s.notify(ctx, booking.ResidentID, notificationModel.TypeBookingStatusChanged, "Service started",
		fmt.Sprintf("Your sevak has checked in for booking %s", booking.BookingNumber), booking)

	res.FromModel(booking)
	res.HideOTP()

	return res, nil
}

// CheckOut records the sevak leaving the site. The booking stays in progress until completed.
func (s *serviceImpl) CheckOut(ctx context.Context, req dto.CheckOutRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, booking, err := s.loadAssigned(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.Status != model.StatusInProgress {
		return res, failure.Conflict(fmt.Sprintf("a %s booking cannot be checked out", booking.Status))
	}

	if booking.CheckedOutAt != nil {
		return res, failure.Conflict("sevak already checked out")
	}

	now := timezone.Now()
	timeline := booking.WithEntry(model.StatusInProgress, "sevak checked out", caller.Actor(), now)

	fields := s.changes(caller.Actor(), now, map[string]any{
		model.FieldCheckedOutAt: now,
		model.FieldTimeline:     timeline,
	})

	filter := guard(booking)
	filter.Filters = append(filter.Filters, gDto.IsNull(model.TableName, model.FieldCheckedOutAt))

	if err = s.apply(ctx, booking.ID, fields, filter, ErrBookingChanged); err != nil {
		return res, err
	}

	booking.CheckedOutAt = &now
	booking.Timeline = timeline
	booking.ModifiedAt, booking.ModifiedBy = now, caller.Actor()

	res.FromModel(booking)
	res.HideOTP()

	return res, nil
}

// Complete closes an in-progress job with before and after photos. Uploaded photos are removed again if the write fails.
func (s *serviceImpl) Complete(ctx context.Context, id string, req dto.CompleteRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, booking, err := s.loadAssigned(ctx, id)
	if err != nil {
		return res, err
	}

	if err = model.Transition(booking.Status, model.StatusCompleted); err != nil {
		return res, err
	}

	maxFiles := s.maxMediaFiles()
	if len(req.Before) > maxFiles || len(req.After) > maxFiles {
		return res, failure.BadRequestFromString(fmt.Sprintf("at most %d photos per set", maxFiles))
	}

	var uploaded []string

	defer func() {
		if err != nil {
			s.discardMedia(ctx, uploaded)
		}
	}()

	before, err := s.uploadMedia(ctx, booking.ID, "before", req.Before, &uploaded)
	if err != nil {
		return res, err
	}

	after, err := s.uploadMedia(ctx, booking.ID, "after", req.After, &uploaded)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	note := "job completed"
	if req.Notes != nil && *req.Notes != constant.Empty {
		note += ": " + *req.Notes
	}

	checkedOutAt := now
	if booking.CheckedOutAt != nil {
		checkedOutAt = *booking.CheckedOutAt
	}

	booking.BeforeMedia = append(booking.BeforeMedia, before...)
	booking.AfterMedia = append(booking.AfterMedia, after...)
	timeline := booking.WithEntry(model.StatusCompleted, note, caller.Actor(), now)

	fields := s.changes(caller.Actor(), now, map[string]any{
		model.FieldStatus:          model.StatusCompleted,
		model.FieldCompletedAt:     now,
		model.FieldCheckedOutAt:    checkedOutAt,
		model.FieldBeforeMedia:     booking.BeforeMedia,
		model.FieldAfterMedia:      booking.AfterMedia,
		model.FieldCompletionNotes: req.Notes,
		model.FieldTimeline:        timeline,
	})

	if err = s.apply(ctx, booking.ID, fields, guard(booking), ErrBookingChanged); err != nil {
		return res, err
	}

	booking.Status = model.StatusCompleted
	booking.CompletedAt = &now
	booking.CheckedOutAt = &checkedOutAt
	booking.CompletionNotes = req.Notes
	booking.Timeline = timeline
	booking.ModifiedAt, booking.ModifiedBy = now, caller.Actor()

	s.notify(ctx, booking.ResidentID, notificationModel.TypeBookingStatusChanged, "Service completed",
		fmt.Sprintf("Booking %s is complete", booking.BookingNumber), booking)

	res.FromModel(booking)
	res.HideOTP()

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (s *serviceImpl) loadAssigned(ctx context.Context, id string) (principal.Principal, model.Booking, error) {
	caller, ok := principal.FromContext(ctx)
	if !ok {
		return caller, model.Booking{}, failure.Unauthorized("missing authenticated user")
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return caller, booking, err
	}

	if !booking.AssignedTo(caller.UserID) {
		return caller, booking, ErrNotAssignedSevak
	}

	return caller, booking, nil
}

// apply writes fields only where filter still matches. No matching row means another request got there first.
func (s *serviceImpl) apply(ctx context.Context, id string, fields map[string]any, filter gDto.FilterGroup, lost error) error {
	affected, err := s.repo.UpdateCount(ctx, fields, filter)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	if affected == 0 {
		return lost
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) changes(actor string, now time.Time, fields map[string]any) map[string]any {
	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = actor

	return fields
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		InvalidateCaches(context.WithoutCancel(ctx), s.cache, id)
	}()
}

func (s *serviceImpl) redact(res *dto.BookingResponse, caller principal.Principal) {
	if res.ResidentID != caller.UserID {
		res.HideOTP()
	}
}

func (s *serviceImpl) notify(ctx context.Context, recipientID string, notificationType notificationModel.Type, title, body string, booking model.Booking) {
	event := notificationModel.Event{
		RecipientID: recipientID,
		Type:        notificationType,
		Title:       title,
		Body:        body,
		Payload: notificationModel.Payload{
			"booking_id":     booking.ID,
			"booking_number": booking.BookingNumber,
			"status":         string(booking.Status),
		},
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Str("type", string(notificationType)).Msg("failed to send booking notification")
	}
}

func (s *serviceImpl) uploadMedia(ctx context.Context, bookingID, set string, files []*multipart.FileHeader, uploaded *[]string) ([]string, error) {
	directory := path.Join(s.mediaDirectory(), bookingID, set)
	urls := make([]string, 0, len(files))

	for _, file := range files {
		url, err := s.s3.UploadFile(ctx, directory, uuid.NewString()+path.Ext(file.Filename), file)
		if err != nil {
			log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to upload booking media")

			return nil, fmt.Errorf("failed to upload %s photo: %w", set, err)
		}

		urls = append(urls, url)
		*uploaded = append(*uploaded, url)
	}

	return urls, nil
}

func (s *serviceImpl) discardMedia(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.s3.DeleteFile(context.WithoutCancel(ctx), url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to remove orphaned booking media")
		}
	}
}

func (s *serviceImpl) otpLength() int {
	if s.cfg.Booking.OTPLength > 0 {
		return s.cfg.Booking.OTPLength
	}

	return defaultOTPLength
}

func (s *serviceImpl) maxMediaFiles() int {
	if s.cfg.Booking.MaxMediaFiles > 0 {
		return s.cfg.Booking.MaxMediaFiles
	}

	return defaultMaxMediaFiles
}

func (s *serviceImpl) mediaDirectory() string {
	if s.cfg.Booking.MediaDirectory != constant.Empty {
		return s.cfg.Booking.MediaDirectory
	}

	return defaultMediaDirectory
}

// guard matches the booking only while it is still in the status it was read in.
func guard(booking model.Booking) gDto.FilterGroup {
	return shared.FilterEq(model.TableName, map[string]any{
		model.FieldID:     booking.ID,
		model.FieldStatus: booking.Status,
	})
}
