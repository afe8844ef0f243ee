package catalog

import (
	"net/http"
	"seva/infras/otel"
	"seva/internal/domains/catalog/model"
	"seva/internal/domains/catalog/model/dto"
	"seva/internal/domains/catalog/service"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/failure"
	"seva/shared/validator"
	"seva/transport/http/response"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const formImage = "image"

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/services", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetServices)
		routerGroup.Get("/{id}", handler.GetServiceByID)
		routerGroup.Post("/", handler.CreateService)
		routerGroup.Patch("/{id}", handler.UpdateService)
	})
}

// GetServices lists the catalog. Inactive services are hidden unless is_active=false is asked for.
// @Summary List services
// @Tags Catalog
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param vendor_id query string false "Filter by vendor"
// @Param is_active query boolean false "Filter by active flag, defaults to true"
// @Param search query string false "Match on name"
// @Success 200 {object} response.Envelope[dto.GetServicesResponse]
// @Failure 400 {object} response.Envelope[any]
// @Router /v1/services [get]
func (handler *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.SortableFields...)

	query := r.URL.Query()
	filter := dto.Filter{
		Category: query.Get(model.FieldCategory),
		Search:   query.Get("search"),
		VendorID: query.Get(model.FieldVendorID),
		IsActive: shared.ConvertStringToBool(query.Get(model.FieldIsActive)),
	}

	if filter.IsActive == nil {
		active := true
		filter.IsActive = &active
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	services, err := handler.service.GetAll(ctx, queryParams, filter.ToFilterGroup())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get services")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Services retrieved", services)
}

// GetServiceByID retrieves one catalog entry.
// @Summary Get a service
// @Tags Catalog
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Envelope[dto.ServiceResponse]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/services/{id} [get]
func (handler *Handler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get service by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Service retrieved", res)
}

// CreateService adds a catalog entry. Accepts JSON, or a multipart form carrying an image.
// @Summary Create a service
// @Tags Catalog
// @Accept json,mpfd
// @Produce json
// @Param request body dto.CreateServiceRequest true "Create Service Request"
// @Param image formData file false "Cover image"
// @Success 201 {object} response.Envelope[dto.ServiceResponse]
// @Failure 400 {object} response.Envelope[any]
// @Router /v1/services [post]
// @Security BearerAuth
func (handler *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateService")
	defer scope.End()

	req := dto.CreateServiceRequest{}

	var err error
	if isMultipart(r) {
		err = parseCreateForm(r, &req)
	} else {
		err = validator.Validate(r.Body, &req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create service")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, "Service created successfully", res)
}

// UpdateService changes a catalog entry. Accepts JSON, or a multipart form carrying an image.
// @Summary Update a service
// @Tags Catalog
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Update Service Request"
// @Success 200 {object} response.Envelope[dto.ServiceResponse]
// @Failure 400 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/services/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	req := dto.UpdateServiceRequest{}

	var err error
	if isMultipart(r) {
		err = parseUpdateForm(r, &req)
	} else {
		err = validator.Validate(r.Body, &req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(w, err)

		return
	}

	if err = handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update service")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Service updated successfully", res)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get(constant.RequestHeaderContentType), constant.ContentTypeMultipartFormData)
}

func parseCreateForm(r *http.Request, req *dto.CreateServiceRequest) error {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return failure.BadRequest(err)
	}

	req.Name = r.FormValue(model.FieldName)
	req.Category = r.FormValue(model.FieldCategory)
	req.Description = r.FormValue(model.FieldDescription)
	req.IsActive = shared.ConvertStringToBool(r.FormValue(model.FieldIsActive))

	if vendorID := r.FormValue(model.FieldVendorID); vendorID != constant.Empty {
		req.VendorID = &vendorID
	}

	if price, err := strconv.ParseFloat(r.FormValue(model.FieldBasePrice), 64); err == nil {
		req.BasePrice = price
	}

	if minutes, err := strconv.Atoi(r.FormValue(model.FieldDurationMinutes)); err == nil {
		req.DurationMinutes = minutes
	}

	if _, header, err := r.FormFile(formImage); err == nil {
		req.Image = header
	}

	return validator.ValidateStruct(req)
}

func parseUpdateForm(r *http.Request, req *dto.UpdateServiceRequest) error {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return failure.BadRequest(err)
	}

	req.Name = r.FormValue(model.FieldName)
	req.Category = r.FormValue(model.FieldCategory)
	req.Description = r.FormValue(model.FieldDescription)
	req.IsActive = shared.ConvertStringToBool(r.FormValue(model.FieldIsActive))

	if price, err := strconv.ParseFloat(r.FormValue(model.FieldBasePrice), 64); err == nil {
		req.BasePrice = &price
	}

	if minutes, err := strconv.Atoi(r.FormValue(model.FieldDurationMinutes)); err == nil {
		req.DurationMinutes = &minutes
	}

	if _, header, err := r.FormFile(formImage); err == nil {
		req.Image = header
	}

	return validator.ValidateStruct(req)
}
