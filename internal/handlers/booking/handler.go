package booking

import (
	"net/http"
	"seva/infras/otel"
	"seva/internal/domains/booking/model"
	"seva/internal/domains/booking/model/dto"
	"seva/internal/domains/booking/service"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/principal"
	"seva/shared/validator"
	"seva/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	formBefore = "before"
	formAfter  = "after"
	formNotes  = "notes"

	queryFrom = "from"
	queryTo   = "to"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/my-bookings", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}/reschedule", handler.RescheduleBooking)
		routerGroup.Patch("/{id}/cancel", handler.CancelBooking)
	})
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Put("/bookings/{id}/assign-sevak", handler.AssignSevak)
}

func (handler *Handler) SevakRouter(router chi.Router) {
	router.Route("/sevak", func(routerGroup chi.Router) {
		routerGroup.Get("/jobs", handler.GetJobs)
		routerGroup.Post("/check-in", handler.CheckIn)
		routerGroup.Post("/check-out", handler.CheckOut)
		routerGroup.Patch("/jobs/{id}/complete", handler.CompleteJob)
	})
}

// CreateBooking books a catalog service for the authenticated resident.
// @Summary Create a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Envelope[dto.BookingResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + principal.ActorFromContext(ctx))

	response.WithJSON(w, http.StatusCreated, "Booking created successfully", booking)
}

// GetBookings lists bookings for staff.
// @Summary List bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param sevak_id query string false "Filter by assigned sevak"
// @Param resident_id query string false "Filter by resident"
// @Param from query string false "Scheduled on or after (YYYY-MM-DD)"
// @Param to query string false "Scheduled on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope[dto.GetBookingsResponse]
// @Failure 400 {object} response.Envelope[any]
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.SortableFields...)

	query := r.URL.Query()
	filter := dto.Filter{
		Status:     query.Get(model.FieldStatus),
		SevakID:    query.Get(model.FieldSevakID),
		ResidentID: query.Get(model.FieldResidentID),
		From:       query.Get(queryFrom),
		To:         query.Get(queryTo),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	filterGroup, err := filter.ToFilterGroup()
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, failure.BadRequest(err))

		return
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Bookings retrieved", bookings)
}

// GetMyBookings lists the authenticated resident's bookings.
// @Summary List my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope[dto.GetBookingsResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 401 {object} response.Envelope[any]
// @Router /v1/bookings/my-bookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.SortableFields...)

	bookings, err := handler.service.MyBookings(ctx, queryParams, r.URL.Query().Get(model.FieldStatus))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Bookings retrieved", bookings)
}

// GetBookingByID retrieves a booking visible to the caller.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope[dto.BookingResponse]
// @Failure 403 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Booking retrieved", booking)
}

// RescheduleBooking moves a booking to a new slot, optionally repricing it.
// @Summary Reschedule a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RescheduleRequest true "Reschedule Request"
// @Success 200 {object} response.Envelope[dto.BookingResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/bookings/{id}/reschedule [patch]
// @Security BearerAuth
func (handler *Handler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RescheduleBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RescheduleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Reschedule(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reschedule booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Booking rescheduled successfully", booking)
}

// CancelBooking cancels a booking and refunds it when it was paid.
// @Summary Cancel a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelRequest true "Cancel Request"
// @Success 200 {object} response.Envelope[dto.CancelResponse]
// @Failure 403 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/bookings/{id}/cancel [patch]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Cancel(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Booking cancelled successfully", res)
}

// AssignSevak assigns an eligible sevak to a pending booking.
// @Summary Assign a sevak
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.AssignSevakRequest true "Assign Sevak Request"
// @Success 200 {object} response.Envelope[dto.BookingResponse]
// @Failure 404 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/admin/bookings/{id}/assign-sevak [put]
// @Security BearerAuth
func (handler *Handler) AssignSevak(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignSevak")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignSevakRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Assign(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign sevak")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Sevak " + req.SevakID + " assigned by user " + principal.ActorFromContext(ctx))

	response.WithJSON(w, http.StatusOK, "Sevak assigned successfully", booking)
}

// GetJobs lists bookings assigned to the authenticated sevak.
// @Summary List my jobs
// @Tags Sevak
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope[dto.GetBookingsResponse]
// @Router /v1/sevak/jobs [get]
// @Security BearerAuth
func (handler *Handler) GetJobs(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetJobs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.SortableFields...)

	jobs, err := handler.service.SevakJobs(ctx, queryParams, r.URL.Query().Get(model.FieldStatus))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get sevak jobs")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Jobs retrieved", jobs)
}

// CheckIn starts a job after the resident shares the OTP.
// @Summary Check in
// @Tags Sevak
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Check In Request"
// @Success 200 {object} response.Envelope[dto.BookingResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 403 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/sevak/check-in [post]
// @Security BearerAuth
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	req := dto.CheckInRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.CheckIn(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Checked in successfully", booking)
}

// CheckOut records the sevak leaving the site.
// @Summary Check out
// @Tags Sevak
// @Accept json
// @Produce json
// @Param request body dto.CheckOutRequest true "Check Out Request"
// @Success 200 {object} response.Envelope[dto.BookingResponse]
// @Failure 403 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/sevak/check-out [post]
// @Security BearerAuth
func (handler *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckOut")
	defer scope.End()

	req := dto.CheckOutRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.CheckOut(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Checked out successfully", booking)
}

// CompleteJob closes an in-progress job with before and after photos.
// @Summary Complete a job
// @Tags Sevak
// @Accept mpfd
// @Produce json
// @Param id path string true "Booking ID"
// @Param before formData file false "Photos taken before the work"
// @Param after formData file false "Photos taken after the work"
// @Param notes formData string false "Completion notes"
// @Success 200 {object} response.Envelope[dto.BookingResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 403 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/sevak/jobs/{id}/complete [patch]
// @Security BearerAuth
func (handler *Handler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteJob")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.CompleteRequest{
		Before: r.MultipartForm.File[formBefore],
		After:  r.MultipartForm.File[formAfter],
	}

	if notes := r.FormValue(formNotes); notes != constant.Empty {
		req.Notes = &notes
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Complete(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete job")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Job completed successfully", booking)
}
