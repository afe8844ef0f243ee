package dashboard

import (
	"net/http"
	"seva/infras/otel"
	"seva/internal/domains/dashboard/service"
	"seva/shared/constant"
	"seva/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dashboard
	otel    otel.Otel
}

func New(service service.Dashboard, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Get("/dashboard", handler.GetSummary)
}

// GetSummary returns booking, payment and user counters for the operations dashboard.
// @Summary Dashboard summary
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope[dto.Summary]
// @Router /v1/admin/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboardSummary")
	defer scope.End()

	summary, err := handler.service.Summary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, "Dashboard retrieved", summary)
}
