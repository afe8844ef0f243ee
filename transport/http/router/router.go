package router

import (
	"seva/internal/handlers/auth"
	"seva/internal/handlers/booking"
	"seva/internal/handlers/catalog"
	"seva/internal/handlers/dashboard"
	"seva/internal/handlers/notification"
	"seva/internal/handlers/payment"
	"seva/internal/handlers/sevak"
	"seva/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Catalog      catalog.Handler
	Booking      booking.Handler
	Sevak        sevak.Handler
	Payment      payment.Handler
	Notification notification.Handler
	Dashboard    dashboard.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Booking.SevakRouter(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)

		routerGroup.Route("/admin", func(admin chi.Router) {
			r.DomainHandlers.User.AdminRouter(admin)
			r.DomainHandlers.Booking.AdminRouter(admin)
			r.DomainHandlers.Sevak.AdminRouter(admin)
			r.DomainHandlers.Dashboard.AdminRouter(admin)
		})
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
