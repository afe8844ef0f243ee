package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"seva/config"
	"seva/infras/jwt"
	jwtMocks "seva/infras/jwt/mocks"
	"seva/infras/otel/mocks"
	"seva/permissions"
	"seva/shared/principal"
	"seva/transport/http/middleware"
)

const routesJSON = `{
  "skip": false,
  "endpoints": [
    {"path": "/v1/services/", "method": "GET", "skip": true},
    {"path": "/v1/bookings/{id}", "method": "GET"},
    {"path": "/v1/admin/bookings/{id}/assign-sevak", "method": "PUT", "permission": "booking:assign"},
    {"path": "/v1/admin/users/", "method": "POST", "permission": "user:manage"}
  ]
}`

type revoked map[string]bool

func (r revoked) IsRevoked(_ context.Context, tokenID string) bool {
	return r[tokenID]
}

type authFixture struct {
	jwt    *jwtMocks.MockJWT
	router chi.Router
	seen   *principal.Principal
}

func newAuthFixture(t *testing.T, revokedTokens revoked) *authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	perms, err := permissions.Parse([]byte(routesJSON))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	f := &authFixture{jwt: jwtMocks.NewMockJWT(ctrl)}
	mw := middleware.NewAuthRoleMiddleware(f.jwt, revokedTokens, mocks.NewOtel(), perms, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		if p, found := principal.FromContext(r.Context()); found {
			f.seen = &p
		}

		w.WriteHeader(http.StatusNoContent)
	}

	router := chi.NewRouter()
	router.Use(mw.APIKey, mw.Auth, mw.RBAC)
	router.Route("/v1", func(r chi.Router) {
		r.Route("/services", func(r chi.Router) {
			r.Get("/", ok)
		})
		r.Get("/bookings/{id}", ok)
		r.Get("/reports", ok)
		r.Route("/admin", func(r chi.Router) {
			r.Put("/bookings/{id}/assign-sevak", ok)
			r.Route("/users", func(r chi.Router) {
				r.Post("/", ok)
			})
		})
	})

	f.router = router

	return f
}

func (f *authFixture) do(method, path, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func (f *authFixture) expectToken(token string, role permissions.Role, tokenID string) {
	f.jwt.EXPECT().ValidateToken(gomock.Any(), token, jwt.AccessToken).Return(&jwt.Claims{
		UserID:  "user-" + string(role),
		Email:   string(role) + "@seva.test",
		Role:    role,
		TokenID: tokenID,
	}, nil)
}

func TestAuthSkipsPublicRoute(t *testing.T) {
	f := newAuthFixture(t, nil)

	rec := f.do(http.MethodGet, "/v1/services/", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, f.seen)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	f := newAuthFixture(t, nil)

	rec := f.do(http.MethodGet, "/v1/bookings/b-1", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.jwt.EXPECT().ValidateToken(gomock.Any(), "stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

	rec := f.do(http.MethodGet, "/v1/bookings/b-1", "stale")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture(t, revoked{"tok-1": true})
	f.expectToken("good", permissions.RoleResident, "tok-1")

	rec := f.do(http.MethodGet, "/v1/bookings/b-1", "good")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestAuthStoresPrincipal(t *testing.T) {
	f := newAuthFixture(t, revoked{})
	f.expectToken("good", permissions.RoleResident, "tok-2")

	rec := f.do(http.MethodGet, "/v1/bookings/b-1", "good")

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, f.seen)
	assert.Equal(t, "user-resident", f.seen.UserID)
	assert.Equal(t, permissions.RoleResident, f.seen.Role)
	assert.Equal(t, "tok-2", f.seen.TokenID)
}

func TestRBAC(t *testing.T) {
	tests := []struct {
		name     string
		role     permissions.Role
		wantCode int
	}{
		{name: "admin may assign", role: permissions.RoleAdmin, wantCode: http.StatusNoContent},
		{name: "superadmin may assign", role: permissions.RoleSuperAdmin, wantCode: http.StatusNoContent},
		{name: "resident may not assign", role: permissions.RoleResident, wantCode: http.StatusForbidden},
		{name: "sevak may not assign", role: permissions.RoleSevak, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, revoked{})
			f.expectToken("good", tt.role, "tok")

			rec := f.do(http.MethodPut, "/v1/admin/bookings/b-1/assign-sevak", "good")

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRBACCollectionRouteWithoutTrailingSlash(t *testing.T) {
	tests := []struct {
		name     string
		role     permissions.Role
		path     string
		wantCode int
	}{
		{name: "resident with slash", role: permissions.RoleResident, path: "/v1/admin/users/", wantCode: http.StatusForbidden},
		{name: "resident without slash", role: permissions.RoleResident, path: "/v1/admin/users", wantCode: http.StatusForbidden},
		{name: "admin without slash", role: permissions.RoleAdmin, path: "/v1/admin/users", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, revoked{})
			f.expectToken("good", tt.role, "tok")

			rec := f.do(http.MethodPost, tt.path, "good")

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRBACRejectsUnlistedRoute(t *testing.T) {
	f := newAuthFixture(t, revoked{})
	f.expectToken("good", permissions.RoleSuperAdmin, "tok")

	rec := f.do(http.MethodGet, "/v1/reports", "good")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPIKey(t *testing.T) {
	t.Run("valid key bypasses token auth", func(t *testing.T) {
		f := newAuthFixture(t, nil)

		rec := f.do(http.MethodPut, "/v1/admin/bookings/b-1/assign-sevak", "", "X-API-Key", "internal-key")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wrong key is forbidden", func(t *testing.T) {
		f := newAuthFixture(t, nil)

		rec := f.do(http.MethodGet, "/v1/bookings/b-1", "", "X-API-Key", "guess")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAuthPropagatesUnknownValidationError(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.jwt.EXPECT().ValidateToken(gomock.Any(), "odd", jwt.AccessToken).Return(nil, errors.New("boom"))

	rec := f.do(http.MethodGet, "/v1/bookings/b-1", "odd")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token validation failed")
}
