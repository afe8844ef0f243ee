package permissions_test

import (
	"encoding/json"
	"seva/permissions"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name       string
		role       permissions.Role
		permission permissions.Permission
		allowed    bool
	}{
		{name: "resident creates booking", role: permissions.RoleResident, permission: permissions.BookingCreate, allowed: true},
		{name: "resident cannot assign", role: permissions.RoleResident, permission: permissions.BookingAssign, allowed: false},
		{name: "sevak works jobs", role: permissions.RoleSevak, permission: permissions.SevakJobs, allowed: true},
		{name: "sevak cannot refund", role: permissions.RoleSevak, permission: permissions.PaymentRefund, allowed: false},
		{name: "admin assigns", role: permissions.RoleAdmin, permission: permissions.BookingAssign, allowed: true},
		{name: "admin cannot refund", role: permissions.RoleAdmin, permission: permissions.PaymentRefund, allowed: false},
		{name: "admin manages users", role: permissions.RoleAdmin, permission: permissions.UserManage, allowed: true},
		{name: "finance cannot manage users", role: permissions.RoleFinance, permission: permissions.UserManage, allowed: false},
		{name: "finance refunds", role: permissions.RoleFinance, permission: permissions.PaymentRefund, allowed: true},
		{name: "finance cannot blacklist", role: permissions.RoleFinance, permission: permissions.SevakBlacklist, allowed: false},
		{name: "superadmin refunds", role: permissions.RoleSuperAdmin, permission: permissions.PaymentRefund, allowed: true},
		{name: "superadmin blacklists", role: permissions.RoleSuperAdmin, permission: permissions.SevakBlacklist, allowed: true},
		{name: "unknown role", role: permissions.Role("root"), permission: permissions.BookingReadOwn, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.role.Can(tt.permission))
		})
	}
}

func TestSuperAdminHasEveryPermission(t *testing.T) {
	for _, p := range permissions.All() {
		assert.True(t, permissions.RoleSuperAdmin.Can(p), p.String())
	}
}

func TestParsePermissionRoundTrip(t *testing.T) {
	for _, p := range permissions.All() {
		parsed, err := permissions.ParsePermission(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := permissions.ParsePermission("booking:delete")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := permissions.ParseRole("sevak")
	assert.NoError(t, err)
	assert.Equal(t, permissions.RoleSevak, role)

	_, err = permissions.ParseRole("root")
	assert.Error(t, err)

	assert.True(t, permissions.RoleResident.SelfRegistrable())
	assert.False(t, permissions.RoleAdmin.SelfRegistrable())
	assert.True(t, permissions.RoleFinance.IsStaff())
}

func TestSetIgnoresOutOfRange(t *testing.T) {
	set := permissions.NewSet(permissions.BookingCreate)

	assert.True(t, set.Has(permissions.BookingCreate))
	assert.False(t, set.Has(permissions.Permission(0)))
	assert.False(t, set.Has(permissions.Permission(999)))
}

func TestEmbeddedRoutes(t *testing.T) {
	data, err := permissions.Get()
	assert.NoError(t, err)

	assign, found := data.FindPermissions("/v1/admin/bookings/{id}/assign-sevak", "PUT")
	assert.True(t, found)
	assert.Equal(t, permissions.BookingAssign, assign.Permission)

	login, _ := data.FindPermissions("/v1/auth/login", "POST")
	assert.True(t, login.Skip)

	_, found = data.FindPermissions("/v1/unknown", "GET")
	assert.False(t, found)
}

func TestFindPermissionsIgnoresTrailingSlash(t *testing.T) {
	data, err := permissions.Get()
	assert.NoError(t, err)

	for _, path := range []string{"/v1/admin/users", "/v1/admin/users/"} {
		endpoint, found := data.FindPermissions(path, "POST")
		assert.True(t, found, path)
		assert.Equal(t, permissions.UserManage, endpoint.Permission, path)
	}

	endpoint, found := data.FindPermissions("/v1/users/me/", "GET")
	assert.True(t, found)
	assert.Equal(t, "/v1/users/me", endpoint.Path)
}

func TestParseRejectsUnknownPermission(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints":[{"path":"/v1/x","method":"GET","permission":"x:y"}]}`))
	assert.Error(t, err)
}

func TestPermissionMarshal(t *testing.T) {
	encoded, err := json.Marshal(permissions.PaymentRefund)
	assert.NoError(t, err)
	assert.Equal(t, `"payment:refund"`, string(encoded))
}
