package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"seva/config"
	"seva/infras/jwt"
	"seva/infras/otel"
	"seva/permissions"
	"seva/shared/constant"
	"seva/shared/failure"
	"seva/shared/principal"
	"seva/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type SkipAuthKey string

// RevocationChecker reports whether an access token was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) bool
}

type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	revocation RevocationChecker
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(
	jwtService jwt.JWT,
	revocation RevocationChecker,
	otel otel.Otel,
	permissions *permissions.PermissionData,
	cfg *config.Config,
) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		revocation: revocation,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func skipped(ctx context.Context) bool {
	skip, _ := ctx.Value(SkipAuthKey("skip")).(bool)

	return skip
}

// endpoint resolves the matched route pattern against the permission table.
func (m *authRoleImpl) endpoint(request *http.Request) (string, permissions.Endpoint, bool) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || m.permission == nil {
		return request.URL.Path, permissions.Endpoint{}, false
	}

	path := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	endpoint, found := m.permission.FindPermissions(path, request.Method)

	return path, endpoint, found
}

// Auth validates the bearer token and stores the caller principal on the context.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		path, endpoint, _ := m.endpoint(request)
		if skipped(ctx) || endpoint.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		fail := func(err error) {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)
		}

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == constant.Empty {
			fail(failure.Unauthorized("Missing authorization header"))

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			fail(failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, tokenString, jwt.AccessToken)
		if err != nil {
			message := "Token validation failed"

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidToken):
				message = "Invalid token"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			}

			fail(failure.Unauthorized(message))

			return
		}

		if claims.UserID == constant.Empty || claims.Email == constant.Empty || !claims.Role.Valid() {
			fail(failure.Unauthorized("Invalid token claims"))

			return
		}

		if m.revocation != nil && m.revocation.IsRevoked(ctx, claims.TokenID) {
			fail(failure.Unauthorized("Token has been revoked"))

			return
		}

		ctx = principal.WithContext(ctx, principal.Principal{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Role:    claims.Role,
			TokenID: claims.TokenID,
		})

		scope.SetAttributes(map[string]any{
			"user.id":   claims.UserID,
			"user.role": string(claims.Role),
		})
		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the caller's role against the permission bound to the route.
// Requires prior authentication via Auth.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if m.permission == nil {
			scope.TraceError(failure.ForbiddenError)
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		path, endpoint, found := m.endpoint(request)
		if skipped(ctx) || m.permission.Skip || endpoint.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		// Routes missing from the table are closed to everyone.
		if !found {
			scope.TraceError(failure.ForbiddenError)
			scope.SetAttributes(map[string]any{
				"http.path": path,
				"reason":    "route_not_listed",
			})
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		caller, ok := principal.FromContext(ctx)
		if !ok {
			err := failure.Unauthorized("unauthorized")
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		if endpoint.Permission != 0 && !caller.Role.Can(endpoint.Permission) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":  string(caller.Role),
				"permission": endpoint.Permission.String(),
				"reason":     "permission_not_granted",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal callers bypass token auth with the shared key.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == constant.Empty {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		ctx = context.WithValue(ctx, SkipAuthKey("skip"), true)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
