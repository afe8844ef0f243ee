package router_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seva/permissions"
	"seva/transport/http/router"
)

type route struct {
	method string
	path   string
}

func routes(t *testing.T) []route {
	t.Helper()

	mux := chi.NewRouter()
	r := router.New(router.DomainHandlers{})
	r.SetupRoutes(mux)

	var found []route

	err := chi.Walk(mux, func(method, path string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		found = append(found, route{method: method, path: path})

		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, found)

	return found
}

func TestEveryRouteHasPermissionEntry(t *testing.T) {
	data, err := permissions.Get()
	require.NoError(t, err)

	for _, rt := range routes(t) {
		for _, path := range []string{rt.path, strings.TrimSuffix(rt.path, "/"), strings.TrimSuffix(rt.path, "/") + "/"} {
			_, found := data.FindPermissions(path, rt.method)
			assert.True(t, found, "%s %s", rt.method, path)
		}
	}
}

func TestEveryPermissionEntryHasRoute(t *testing.T) {
	data, err := permissions.Get()
	require.NoError(t, err)

	registered := map[route]bool{}
	for _, rt := range routes(t) {
		registered[route{method: rt.method, path: strings.TrimSuffix(rt.path, "/")}] = true
	}

	for _, endpoint := range data.Endpoints {
		key := route{method: endpoint.Method, path: strings.TrimSuffix(endpoint.Path, "/")}
		assert.True(t, registered[key], "%s %s", endpoint.Method, endpoint.Path)
	}
}

func TestCollectionRoutesRequirePermission(t *testing.T) {
	data, err := permissions.Get()
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		want   permissions.Permission
	}{
		{method: http.MethodPost, path: "/v1/bookings", want: permissions.BookingCreate},
		{method: http.MethodGet, path: "/v1/bookings", want: permissions.BookingReadAll},
		{method: http.MethodGet, path: "/v1/admin/users", want: permissions.UserManage},
		{method: http.MethodPost, path: "/v1/admin/users", want: permissions.UserManage},
		{method: http.MethodPost, path: "/v1/services", want: permissions.CatalogManage},
		{method: http.MethodGet, path: "/v1/notifications", want: permissions.NotificationRead},
	}

	for _, tt := range tests {
		endpoint, found := data.FindPermissions(tt.path, tt.method)
		require.True(t, found, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.want, endpoint.Permission, "%s %s", tt.method, tt.path)
	}
}
