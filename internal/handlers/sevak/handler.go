package sevak

import (
	"net/http"
	"seva/infras/otel"
	"seva/internal/domains/sevak/model/dto"
	"seva/internal/domains/sevak/service"
	userModel "seva/internal/domains/user/model"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/principal"
	"seva/shared/validator"
	"seva/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Sevak
	otel    otel.Otel
}

func New(service service.Sevak, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/sevaks", func(routerGroup chi.Router) {
		routerGroup.Get("/available", handler.GetAvailable)
		routerGroup.Get("/blacklisted", handler.GetBlacklisted)
		routerGroup.Post("/{id}/blacklist", handler.Blacklist)
		routerGroup.Put("/{id}/reinstate", handler.Reinstate)
	})
}

// GetAvailable lists sevaks that can take an assignment right now.
// @Summary List available sevaks
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Envelope[any]
// @Router /v1/admin/sevaks/available [get]
// @Security BearerAuth
func (handler *Handler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableSevaks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(userModel.SortableFields...)

	sevaks, err := handler.service.Available(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get available sevaks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Available sevaks retrieved", sevaks)
}

// GetBlacklisted lists sevaks whose blacklist is still in force.
// @Summary List blacklisted sevaks
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Envelope[any]
// @Router /v1/admin/sevaks/blacklisted [get]
// @Security BearerAuth
func (handler *Handler) GetBlacklisted(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlacklistedSevaks")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(userModel.SortableFields...)

	sevaks, err := handler.service.Blacklisted(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blacklisted sevaks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Blacklisted sevaks retrieved", sevaks)
}

// Blacklist bars a sevak from new assignments, temporarily or for good.
// @Summary Blacklist a sevak
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Sevak ID"
// @Param request body dto.BlacklistRequest true "Blacklist Request"
// @Success 200 {object} response.Envelope[any]
// @Failure 400 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/admin/sevaks/{id}/blacklist [post]
// @Security BearerAuth
func (handler *Handler) Blacklist(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BlacklistSevak")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.BlacklistRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	sevak, err := handler.service.Blacklist(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to blacklist sevak")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Sevak " + id + " blacklisted by user " + principal.ActorFromContext(ctx))

	response.WithJSON(w, http.StatusOK, "Sevak blacklisted successfully", sevak)
}

// Reinstate lifts a sevak's blacklist.
// @Summary Reinstate a sevak
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Sevak ID"
// @Param request body dto.ReinstateRequest true "Reinstate Request"
// @Success 200 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Failure 409 {object} response.Envelope[any]
// @Router /v1/admin/sevaks/{id}/reinstate [put]
// @Security BearerAuth
func (handler *Handler) Reinstate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReinstateSevak")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ReinstateRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	sevak, err := handler.service.Reinstate(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reinstate sevak")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Sevak " + id + " reinstated by user " + principal.ActorFromContext(ctx))

	response.WithJSON(w, http.StatusOK, "Sevak reinstated successfully", sevak)
}
