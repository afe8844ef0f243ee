package payment

import (
	"io"
	"net/http"
	"seva/infras/otel"
	"seva/internal/domains/payment/model/dto"
	"seva/internal/domains/payment/service"
	"seva/shared/constant"
	"seva/shared/failure"
	"seva/shared/validator"
	"seva/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	paramBookingID  = "bookingId"
	maxWebhookBytes = 1 << 20
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/create-order", handler.CreateOrder)
		routerGroup.Post("/verify", handler.Verify)
		routerGroup.Post("/refund", handler.Refund)
		routerGroup.Post("/webhook", handler.Webhook)
		routerGroup.Get("/invoices/{bookingId}", handler.GetInvoice)
		routerGroup.Get("/invoices/{bookingId}/pdf", handler.DownloadInvoice)
		routerGroup.Get("/{id}", handler.GetPayment)
	})
}

// CreateOrder opens a gateway order for an unpaid booking.
// @Summary Create a payment order
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.CreateOrderRequest true "Create Order Request"
// @Success 201 {object} response.Envelope[dto.CreateOrderResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Failure 502 {object} response.Envelope[any]
// @Router /v1/payments/create-order [post]
// @Security BearerAuth
func (handler *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOrder")
	defer scope.End()

	req := dto.CreateOrderRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	order, err := handler.service.CreateOrder(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create payment order")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, "Payment order created", order)
}

// Verify checks the checkout signature and settles the booking.
// @Summary Verify a payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.VerifyRequest true "Verify Request"
// @Success 200 {object} response.Envelope[dto.VerifyResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/payments/verify [post]
// @Security BearerAuth
func (handler *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Verify")
	defer scope.End()

	req := dto.VerifyRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Verify(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("order_id", req.OrderID).Msg("failed to verify payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Payment verified successfully", res)
}

// Refund returns money for a successful payment.
// @Summary Refund a payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.RefundRequest true "Refund Request"
// @Success 200 {object} response.Envelope[dto.RefundResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Failure 502 {object} response.Envelope[any]
// @Router /v1/payments/refund [post]
// @Security BearerAuth
func (handler *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Refund")
	defer scope.End()

	req := dto.RefundRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Refund(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("payment_id", req.PaymentID).Msg("failed to refund payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Refund processed successfully", res)
}

// Webhook receives gateway events. The body is verified against the webhook secret as received.
// @Summary Gateway webhook
// @Tags Payment
// @Accept json
// @Produce json
// @Param X-Razorpay-Signature header string true "HMAC-SHA256 of the body"
// @Success 200 {object} response.Envelope[any]
// @Failure 401 {object} response.Envelope[any]
// @Router /v1/payments/webhook [post]
func (handler *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Webhook")
	defer scope.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read webhook body")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	if err := handler.service.Webhook(ctx, body, r.Header.Get(constant.RequestHeaderGatewaySignature)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to process webhook")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Webhook processed")
}

// GetPayment retrieves a payment visible to the caller.
// @Summary Get a payment
// @Tags Payment
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope[dto.PaymentResponse]
// @Failure 403 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/payments/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayment")
	defer scope.End()

	payment, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Payment retrieved", payment)
}

// GetInvoice returns the invoice issued for a paid booking.
// @Summary Get an invoice
// @Tags Payment
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} response.Envelope[dto.InvoiceResponse]
// @Failure 403 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/payments/invoices/{bookingId} [get]
// @Security BearerAuth
func (handler *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoice")
	defer scope.End()

	invoice, err := handler.service.GetInvoice(ctx, chi.URLParam(r, paramBookingID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoice")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Invoice retrieved", invoice)
}

// DownloadInvoice renders the invoice as a PDF attachment.
// @Summary Download an invoice
// @Tags Payment
// @Produce application/pdf
// @Param bookingId path string true "Booking ID"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/payments/invoices/{bookingId}/pdf [get]
// @Security BearerAuth
func (handler *Handler) DownloadInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DownloadInvoice")
	defer scope.End()

	content, fileName, err := handler.service.InvoicePDF(ctx, chi.URLParam(r, paramBookingID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to render invoice")

		response.WithError(w, err)

		return
	}

	response.WithFile(w, constant.ContentTypePDF, fileName, content)
}
