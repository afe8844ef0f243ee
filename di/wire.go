//go:build wireinject
// +build wireinject

package di

import (
	"seva/config"
	"seva/infras/gateway"
	"seva/infras/jwt"
	"seva/infras/kafka"
	"seva/infras/otel"
	"seva/infras/postgres"
	"seva/infras/redis"
	"seva/infras/s3"
	"seva/shared/cache"
	"seva/transport/http"
	"seva/transport/http/middleware"
	"seva/transport/http/router"

	authService "seva/internal/domains/auth/service"
	bookingRepository "seva/internal/domains/booking/repository"
	bookingService "seva/internal/domains/booking/service"
	catalogRepository "seva/internal/domains/catalog/repository"
	catalogService "seva/internal/domains/catalog/service"
	dashboardService "seva/internal/domains/dashboard/service"
	notificationRepository "seva/internal/domains/notification/repository"
	notificationService "seva/internal/domains/notification/service"
	paymentRepository "seva/internal/domains/payment/repository"
	paymentService "seva/internal/domains/payment/service"
	sevakService "seva/internal/domains/sevak/service"
	userRepository "seva/internal/domains/user/repository"
	userService "seva/internal/domains/user/service"
	authHandler "seva/internal/handlers/auth"
	bookingHandler "seva/internal/handlers/booking"
	catalogHandler "seva/internal/handlers/catalog"
	dashboardHandler "seva/internal/handlers/dashboard"
	notificationHandler "seva/internal/handlers/notification"
	paymentHandler "seva/internal/handlers/payment"
	sevakHandler "seva/internal/handlers/sevak"
	userHandler "seva/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	providePermissions,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	gateway.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Bind(new(middleware.RevocationChecker), new(authService.Auth)),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var repositories = wire.NewSet(
	userRepository.New,
	catalogRepository.New,
	bookingRepository.New,
	paymentRepository.New,
	paymentRepository.NewInvoice,
	notificationRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	catalogService.New,
	notificationService.New,
	bookingService.New,
	sevakService.New,
	paymentService.New,
	dashboardService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	catalogHandler.New,
	bookingHandler.New,
	sevakHandler.New,
	paymentHandler.New,
	notificationHandler.New,
	dashboardHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeNotifier() *Notifier {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		provideDispatcher,
		wire.Struct(new(Notifier), "*"),
	)

	return &Notifier{}
}
