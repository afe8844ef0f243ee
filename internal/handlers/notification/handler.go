package notification

import (
	"net/http"
	"seva/infras/otel"
	"seva/internal/domains/notification/model"
	"seva/internal/domains/notification/model/dto"
	"seva/internal/domains/notification/service"
	"seva/shared"
	"seva/shared/constant"
	gDto "seva/shared/dto"
	"seva/shared/validator"
	"seva/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryUnread = "unread"

type Handler struct {
	service service.Notification
	otel    otel.Otel
}

func New(service service.Notification, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetNotifications)
		routerGroup.Patch("/read-all", handler.MarkAllRead)
		routerGroup.Patch("/{id}/read", handler.MarkRead)
		routerGroup.Get("/settings", handler.GetSettings)
		routerGroup.Put("/settings", handler.UpdateSettings)
	})
}

// GetNotifications lists the caller's in-app notifications, newest first.
// @Summary List notifications
// @Tags Notification
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param unread query boolean false "Only unread notifications"
// @Success 200 {object} response.Envelope[dto.GetNotificationsResponse]
// @Router /v1/notifications [get]
// @Security BearerAuth
func (handler *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNotifications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.Sanitize(model.FieldType, model.FieldIsRead)

	unreadOnly := false
	if unread := shared.ConvertStringToBool(r.URL.Query().Get(queryUnread)); unread != nil {
		unreadOnly = *unread
	}

	notifications, err := handler.service.List(ctx, queryParams, unreadOnly)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get notifications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Notifications retrieved", notifications)
}

// MarkRead flags one notification as read.
// @Summary Mark a notification read
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Envelope[any]
// @Failure 404 {object} response.Envelope[any]
// @Router /v1/notifications/{id}/read [patch]
// @Security BearerAuth
func (handler *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRead")
	defer scope.End()

	if err := handler.service.MarkRead(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark notification read")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Notification marked as read")
}

// MarkAllRead flags every unread notification of the caller as read.
// @Summary Mark all notifications read
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Envelope[dto.MarkAllReadResponse]
// @Router /v1/notifications/read-all [patch]
// @Security BearerAuth
func (handler *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkAllRead")
	defer scope.End()

	res, err := handler.service.MarkAllRead(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark notifications read")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Notifications marked as read", res)
}

// GetSettings returns the caller's per-type notification preferences.
// @Summary Get notification settings
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Envelope[dto.SettingsResponse]
// @Router /v1/notifications/settings [get]
// @Security BearerAuth
func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSettings")
	defer scope.End()

	res, err := handler.service.GetSettings(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get notification settings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Notification settings retrieved", res)
}

// UpdateSettings merges the given preferences into the caller's settings.
// @Summary Update notification settings
// @Tags Notification
// @Accept json
// @Produce json
// @Param request body dto.SettingsRequest true "Settings Request"
// @Success 200 {object} response.Envelope[dto.SettingsResponse]
// @Failure 400 {object} response.Envelope[any]
// @Router /v1/notifications/settings [put]
// @Security BearerAuth
func (handler *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSettings")
	defer scope.End()

	req := dto.SettingsRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UpdateSettings(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update notification settings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Notification settings updated", res)
}
