package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"seva/config"
	"seva/infras/gateway"
	"seva/infras/otel"
	bookingModel "seva/internal/domains/booking/model"
	bookingDto "seva/internal/domains/booking/model/dto"
	bookingRepo "seva/internal/domains/booking/repository"
	bookingService "seva/internal/domains/booking/service"
	catalogModel "seva/internal/domains/catalog/model"
	catalogRepo "seva/internal/domains/catalog/repository"
	notificationModel "seva/internal/domains/notification/model"
	notificationService "seva/internal/domains/notification/service"
	"seva/internal/domains/payment/model"
	"seva/internal/domains/payment/model/dto"
	"seva/internal/domains/payment/repository"
	"seva/shared"
	"seva/shared/cache"
	"seva/shared/code"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/money"
	"seva/shared/principal"
	"seva/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetPayment = "payment:get"

	defaultCurrency = "INR"
)

var (
	ErrInvalidSignature = &failure.Failure{Code: http.StatusBadRequest, Message: "payment signature verification failed"}
	ErrAlreadyPaid      = &failure.Failure{Code: http.StatusConflict, Message: "booking is already paid"}
	ErrNotPayable       = &failure.Failure{Code: http.StatusConflict, Message: "cancelled or refunded bookings cannot be paid"}
	ErrNotRefundable    = &failure.Failure{Code: http.StatusConflict, Message: "only successful payments can be refunded"}
	ErrPaymentChanged   = &failure.Failure{Code: http.StatusConflict, Message: "payment was changed by another request"}
)

type Payment interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (dto.CreateOrderResponse, error)
	Verify(ctx context.Context, req dto.VerifyRequest) (dto.VerifyResponse, error)
	Refund(ctx context.Context, req dto.RefundRequest) (dto.RefundResponse, error)
	Webhook(ctx context.Context, body []byte, signature string) error
	Get(ctx context.Context, id string) (dto.PaymentResponse, error)
	GetInvoice(ctx context.Context, bookingID string) (dto.InvoiceResponse, error)
	InvoicePDF(ctx context.Context, bookingID string) ([]byte, string, error)
}

type serviceImpl struct {
	repo        repository.Payment
	invoiceRepo repository.Invoice
	bookingRepo bookingRepo.Booking
	catalogRepo catalogRepo.Service
	gateway     gateway.Gateway
	notifier    notificationService.Notification
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Payment,
	invoiceRepo repository.Invoice,
	bookingRepo bookingRepo.Booking,
	catalogRepo catalogRepo.Service,
	gateway gateway.Gateway,
	notifier notificationService.Notification,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		invoiceRepo: invoiceRepo,
		bookingRepo: bookingRepo,
		catalogRepo: catalogRepo,
		gateway:     gateway,
		notifier:    notifier,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// CreateOrder opens a gateway order for the booking total. A supplied amount must match the booking.
func (s *serviceImpl) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (res dto.CreateOrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateOrder")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	booking, err := s.loadBooking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.ResidentID != caller.UserID && !caller.IsStaff() {
		return res, failure.ResourceRestrictedError
	}

	if booking.PaymentStatus != bookingModel.PaymentPending {
		return res, ErrAlreadyPaid
	}

	if booking.Status == bookingModel.StatusCancelled || booking.Status == bookingModel.StatusRefunded {
		return res, ErrNotPayable
	}

	if req.Amount != nil && money.ToMinor(*req.Amount) != money.ToMinor(booking.TotalAmount) {
		return res, failure.BadRequestFromString(fmt.Sprintf("amount must equal the booking total %.2f", booking.TotalAmount))
	}

	currency := s.currency()

	order, err := s.gateway.CreateOrder(ctx, money.ToMinor(booking.TotalAmount), currency, booking.BookingNumber)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to create gateway order")

		return res, failure.BadGateway("payment gateway rejected the order")
	}

	payment := req.ToModel(booking.ResidentID, order.ID, currency, booking.TotalAmount, timezone.Now())

	if err = s.repo.Insert(ctx, payment); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("failed to create payment")

		return res, fmt.Errorf("failed to create payment: %w", err)
	}

	res = dto.CreateOrderResponse{
		PaymentID:   payment.ID,
		OrderID:     order.ID,
		Amount:      payment.Amount,
		AmountMinor: order.AmountMinor,
		Currency:    currency,
		KeyID:       s.gateway.KeyID(),
	}

	return res, nil
}

// Verify checks the checkout signature. A mismatch is recorded on the payment and the booking is left alone.
func (s *serviceImpl) Verify(ctx context.Context, req dto.VerifyRequest) (res dto.VerifyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	payment, err := s.load(ctx, model.FieldGatewayOrderID, req.OrderID)
	if err != nil {
		return res, err
	}

	if payment.UserID != caller.UserID && !caller.IsStaff() {
		return res, failure.ResourceRestrictedError
	}

	switch {
	case payment.Status == model.StatusSuccess && payment.GatewayPaymentID != nil && *payment.GatewayPaymentID == req.PaymentID:
		return s.settled(ctx, payment)
	case !payment.Status.Settleable():
		return res, ErrPaymentChanged
	}

	if !model.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.cfg.Payment.KeySecret) {
		s.markFailed(ctx, payment, req.PaymentID, "signature mismatch")

		return res, ErrInvalidSignature
	}

	return s.settle(ctx, payment, req.PaymentID, &req.Signature, req.Method)
}

// Refund returns the full paid amount through the gateway first, then records it locally.
// A gateway refund whose local write fails is only logged.
func (s *serviceImpl) Refund(ctx context.Context, req dto.RefundRequest) (res dto.RefundResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor := principal.ActorFromContext(ctx)

	payment, err := s.load(ctx, model.FieldID, req.PaymentID)
	if err != nil {
		return res, err
	}

	if payment.Status != model.StatusSuccess || payment.GatewayPaymentID == nil {
		return res, ErrNotRefundable
	}

	amount := payment.Amount
	if req.Amount != nil {
		amount = money.Round2(*req.Amount)
	}

	// A refund settles the payment, so it always returns the full paid amount.
	if amount != payment.Amount {
		return res, failure.BadRequestFromString(fmt.Sprintf("refund must equal the paid amount %.2f", payment.Amount))
	}

	booking, err := s.loadBooking(ctx, payment.BookingID)
	if err != nil {
		return res, err
	}

	refund, err := s.gateway.Refund(ctx, *payment.GatewayPaymentID, money.ToMinor(amount))
	if err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("gateway refund failed")
		s.recordFailure(ctx, payment, "refund failed: "+err.Error())

		return res, failure.BadGateway("payment gateway rejected the refund")
	}

	now := timezone.Now()

	bookingStatus := booking.Status
	if booking.Status.CanTransitionTo(bookingModel.StatusRefunded) {
		bookingStatus = bookingModel.StatusRefunded
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.repo.UpdateCountTx(ctx, tx, map[string]any{
			model.FieldStatus:         model.StatusRefunded,
			model.FieldRefundID:       refund.ID,
			model.FieldRefundedAmount: amount,
			model.FieldRefundReason:   req.Reason,
			model.FieldRefundedAt:     now,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  actor,
		}, shared.FilterEq(model.TableName, map[string]any{
			model.FieldID:     payment.ID,
			model.FieldStatus: model.StatusSuccess,
		}))
		if err != nil {
			return err
		}

		if affected == 0 {
			return ErrPaymentChanged
		}

		affected, err = s.bookingRepo.UpdateCountTx(ctx, tx, map[string]any{
			bookingModel.FieldStatus:        bookingStatus,
			bookingModel.FieldPaymentStatus: bookingModel.PaymentRefunded,
			bookingModel.FieldTimeline:      booking.WithEntry(bookingStatus, fmt.Sprintf("refunded %.2f: %s", amount, req.Reason), actor, now),
			constant.FieldModifiedAt:        now,
			constant.FieldModifiedBy:        actor,
		}, shared.FilterEq(bookingModel.TableName, map[string]any{
			bookingModel.FieldID:            booking.ID,
			bookingModel.FieldStatus:        booking.Status,
			bookingModel.FieldPaymentStatus: bookingModel.PaymentPaid,
		}))
		if err != nil {
			return err
		}

		if affected == 0 {
			return failure.Conflict("booking was changed by another request")
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).
			Str("payment_id", payment.ID).
			Str("refund_id", refund.ID).
			Msg("gateway refund issued but local update failed, reconcile manually")

		var fail *failure.Failure
		if errors.As(err, &fail) {
			return res, err
		}

		return res, fmt.Errorf("failed to record refund: %w", err)
	}

	s.invalidate(ctx, payment.ID, booking.ID)

	payment.Status = model.StatusRefunded
	payment.RefundID = &refund.ID
	payment.RefundedAmount = &amount
	payment.RefundReason = &req.Reason
	payment.RefundedAt = &now

	s.notify(ctx, booking.ResidentID, notificationModel.TypePaymentRefunded, "Refund issued",
		fmt.Sprintf("%s %.2f for booking %s is on its way back to you", payment.Currency, amount, booking.BookingNumber), payment)

	res.Payment.FromModel(payment)
	res.Booking.ID = booking.ID
	res.Booking.Status = string(bookingStatus)
	res.Booking.PaymentStatus = string(bookingModel.PaymentRefunded)

	return res, nil
}

// Webhook applies gateway events. Events for unknown orders or already settled payments are acknowledged and ignored.
func (s *serviceImpl) Webhook(ctx context.Context, body []byte, signature string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Webhook")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !model.VerifyPayload(body, signature, s.cfg.Payment.WebhookSecret) {
		return failure.Unauthorized("invalid webhook signature")
	}

	var event dto.WebhookEvent
	if err = json.Unmarshal(body, &event); err != nil {
		return failure.BadRequest(err)
	}

	entity := event.Payload.Payment.Entity

	if event.Event != dto.WebhookPaymentCaptured && event.Event != dto.WebhookPaymentFailed {
		log.Debug().Str("event", event.Event).Msg("ignoring webhook event")

		return nil
	}

	payment, err := s.load(ctx, model.FieldGatewayOrderID, entity.OrderID)
	if err != nil {
		if failure.GetCode(err) == http.StatusNotFound {
			log.Warn().Str("order_id", entity.OrderID).Msg("webhook for unknown order")

			return nil
		}

		return err
	}

	if !payment.Status.Settleable() {
		return nil
	}

	switch event.Event {
	case dto.WebhookPaymentCaptured:
		var method *string
		if entity.Method != constant.Empty {
			method = &entity.Method
		}

		_, err = s.settle(ctx, payment, entity.ID, nil, method)
		if errors.Is(err, ErrAlreadyPaid) || errors.Is(err, ErrPaymentChanged) {
			log.Warn().Err(err).Str("order_id", entity.OrderID).Msg("captured webhook could not be applied")

			return nil
		}

		return err
	default:
		reason := entity.ErrorDescription
		if reason == constant.Empty {
			reason = "payment failed at gateway"
		}

		s.markFailed(ctx, payment, entity.ID, reason)

		return nil
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller, ok := principal.FromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated user")
	}

	cacheKey := shared.BuildCacheKey(cacheGetPayment, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		payment, err := s.load(ctx, model.FieldID, id)
		if err != nil {
			return res, err
		}

		res.FromModel(payment)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save payment to cache")
			}
		}()
	}

	if res.UserID != caller.UserID && !caller.IsStaff() {
		return dto.PaymentResponse{}, failure.ResourceRestrictedError
	}

	return res, nil
}

func (s *serviceImpl) GetInvoice(ctx context.Context, bookingID string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetInvoice")
	defer scope.End()
	defer scope.TraceIfError(err)

	invoice, err := s.loadInvoice(ctx, bookingID)
	if err != nil {
		return res, err
	}

	res.FromModel(invoice)

	return res, nil
}

func (s *serviceImpl) InvoicePDF(ctx context.Context, bookingID string) (content []byte, fileName string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".InvoicePDF")
	defer scope.End()
	defer scope.TraceIfError(err)

	invoice, err := s.loadInvoice(ctx, bookingID)
	if err != nil {
		return nil, fileName, err
	}

	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, fileName, err
	}

	content, err = renderInvoice(invoice, booking.BookingNumber)
	if err != nil {
		log.Error().Err(err).Str("invoice", invoice.InvoiceNumber).Msg("failed to render invoice")

		return nil, fileName, err
	}

	return content, invoice.InvoiceNumber + ".pdf", nil
}

// settle marks the payment successful, the booking paid and issues the booking's only invoice in one transaction.
func (s *serviceImpl) settle(ctx context.Context, payment model.Payment, gatewayPaymentID string, signature, method *string) (res dto.VerifyResponse, err error) {
	booking, err := s.loadBooking(ctx, payment.BookingID)
	if err != nil {
		return res, err
	}

	if booking.PaymentStatus != bookingModel.PaymentPending {
		return res, ErrAlreadyPaid
	}

	now := timezone.Now()
	actor := principal.ActorFromContext(ctx)

	number, err := code.Reference(model.InvoiceNumberPrefix, now)
	if err != nil {
		return res, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	invoice := dto.NewInvoice(number, booking, payment, s.serviceName(ctx, booking.ServiceID), s.cfg.Payment.TaxPercent, now)
	timeline := booking.WithEntry(booking.Status, "payment received", actor, now)

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		affected, err := s.repo.UpdateCountTx(ctx, tx, map[string]any{
			model.FieldStatus:           model.StatusSuccess,
			model.FieldGatewayPaymentID: gatewayPaymentID,
			model.FieldGatewaySignature: signature,
			model.FieldMethod:           method,
			model.FieldFailureReason:    nil,
			model.FieldVerifiedAt:       now,
			constant.FieldModifiedAt:    now,
			constant.FieldModifiedBy:    actor,
		}, settleableFilter(payment.ID))
		if err != nil {
			return err
		}

		if affected == 0 {
			return ErrPaymentChanged
		}

		affected, err = s.bookingRepo.UpdateCountTx(ctx, tx, map[string]any{
			bookingModel.FieldPaymentStatus: bookingModel.PaymentPaid,
			bookingModel.FieldPaymentMethod: method,
			bookingModel.FieldPaidAt:        now,
			bookingModel.FieldTimeline:      timeline,
			constant.FieldModifiedAt:        now,
			constant.FieldModifiedBy:        actor,
		}, shared.FilterEq(bookingModel.TableName, map[string]any{
			bookingModel.FieldID:            booking.ID,
			bookingModel.FieldPaymentStatus: bookingModel.PaymentPending,
		}))
		if err != nil {
			return err
		}

		if affected == 0 {
			return ErrAlreadyPaid
		}

		return s.invoiceRepo.InsertTx(ctx, tx, invoice)
	})
	if err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to settle payment")

		var fail *failure.Failure
		if errors.As(err, &fail) {
			return res, err
		}

		return res, fmt.Errorf("failed to settle payment: %w", err)
	}

	s.invalidate(ctx, payment.ID, booking.ID)

	payment.Status = model.StatusSuccess
	payment.GatewayPaymentID = &gatewayPaymentID
	payment.GatewaySignature = signature
	payment.Method = method
	payment.FailureReason = nil
	payment.VerifiedAt = &now

	booking.PaymentStatus = bookingModel.PaymentPaid
	booking.PaymentMethod = method
	booking.PaidAt = &now
	booking.Timeline = timeline

	s.notify(ctx, booking.ResidentID, notificationModel.TypePaymentSuccess, "Payment received",
		fmt.Sprintf("%s %.2f received for booking %s", payment.Currency, payment.Amount, booking.BookingNumber), payment)

	return response(payment, booking, invoice), nil
}

// settled replays the result of an earlier successful verification.
func (s *serviceImpl) settled(ctx context.Context, payment model.Payment) (res dto.VerifyResponse, err error) {
	booking, err := s.loadBooking(ctx, payment.BookingID)
	if err != nil {
		return res, err
	}

	invoice, err := s.loadInvoice(ctx, payment.BookingID)
	if err != nil {
		return res, err
	}

	return response(payment, booking, invoice), nil
}

func (s *serviceImpl) markFailed(ctx context.Context, payment model.Payment, gatewayPaymentID, reason string) {
	now := timezone.Now()

	_, err := s.repo.UpdateCount(ctx, map[string]any{
		model.FieldStatus:           model.StatusFailed,
		model.FieldGatewayPaymentID: gatewayPaymentID,
		model.FieldFailureReason:    reason,
		constant.FieldModifiedAt:    now,
		constant.FieldModifiedBy:    principal.ActorFromContext(ctx),
	}, settleableFilter(payment.ID))
	if err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to mark payment failed")

		return
	}

	s.invalidate(ctx, payment.ID, constant.Empty)
	s.notify(ctx, payment.UserID, notificationModel.TypePaymentFailed, "Payment failed", reason, payment)
}

func (s *serviceImpl) recordFailure(ctx context.Context, payment model.Payment, reason string) {
	_, err := s.repo.UpdateCount(ctx, map[string]any{
		model.FieldFailureReason: reason,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: principal.ActorFromContext(ctx),
	}, shared.FilterByID(payment.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to record payment failure")
	}

	s.invalidate(ctx, payment.ID, constant.Empty)
}

func (s *serviceImpl) load(ctx context.Context, field, value string) (model.Payment, error) {
	payment, err := s.repo.Get(ctx, shared.FilterByID(value, field, model.TableName))
	if err != nil {
		log.Error().Err(err).Str(field, value).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound("payment not found")
	}

	return payment, nil
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (bookingModel.Booking, error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (s *serviceImpl) loadInvoice(ctx context.Context, bookingID string) (model.Invoice, error) {
	invoice, err := s.invoiceRepo.Get(ctx, shared.FilterByID(bookingID, model.FieldInvoiceBookingID, model.InvoiceTableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get invoice")

		return invoice, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return invoice, failure.NotFound("invoice not found")
	}

	caller, _ := principal.FromContext(ctx)
	if invoice.UserID != caller.UserID && !caller.IsStaff() {
		return model.Invoice{}, failure.ResourceRestrictedError
	}

	return invoice, nil
}

func (s *serviceImpl) serviceName(ctx context.Context, serviceID string) string {
	service, err := s.catalogRepo.Get(ctx, shared.FilterByID(serviceID, catalogModel.FieldID, catalogModel.TableName),
		catalogModel.FieldID, catalogModel.FieldName)
	if err != nil || service.Name == constant.Empty {
		log.Warn().Err(err).Str("service_id", serviceID).Msg("failed to get service name for invoice")

		return "Service charge"
	}

	return service.Name
}

func (s *serviceImpl) invalidate(ctx context.Context, paymentID, bookingID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPayment, paymentID)); err != nil {
			log.Error().Err(err).Msg("failed to delete payment from cache")
		}

		if bookingID != constant.Empty {
			bookingService.InvalidateCaches(c, s.cache, bookingID)
		}
	}()
}

func (s *serviceImpl) notify(ctx context.Context, recipientID string, notificationType notificationModel.Type, title, body string, payment model.Payment) {
	event := notificationModel.Event{
		RecipientID: recipientID,
		Type:        notificationType,
		Title:       title,
		Body:        body,
		Payload: notificationModel.Payload{
			"payment_id": payment.ID,
			"booking_id": payment.BookingID,
			"amount":     payment.Amount,
			"currency":   payment.Currency,
		},
	}

	if err := s.notifier.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Str("payment_id", payment.ID).Str("type", string(notificationType)).Msg("failed to send payment notification")
	}
}

func (s *serviceImpl) currency() string {
	if s.cfg.Payment.Currency != constant.Empty {
		return s.cfg.Payment.Currency
	}

	return defaultCurrency
}

func settleableFilter(id string) gDto.FilterGroup {
	return gDto.And(
		gDto.Eq(model.TableName, model.FieldID, id),
		gDto.In(model.TableName, model.FieldStatus, []model.Status{model.StatusCreated, model.StatusFailed}),
	)
}

func response(payment model.Payment, booking bookingModel.Booking, invoice model.Invoice) (res dto.VerifyResponse) {
	res.Payment.FromModel(payment)
	res.Booking = bookingResponse(booking)
	res.Invoice.FromModel(invoice)

	return res
}

func bookingResponse(booking bookingModel.Booking) (res bookingDto.BookingResponse) {
	res.FromModel(booking)
	res.HideOTP()

	return res
}
