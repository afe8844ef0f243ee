package permissions

import "fmt"

// Role is the closed set of actors known to the platform.
type Role string

const (
	RoleResident   Role = "resident"
	RoleSevak      Role = "sevak"
	RoleVendor     Role = "vendor"
	RoleAdmin      Role = "admin"
	RoleFinance    Role = "finance"
	RoleSuperAdmin Role = "superadmin"
)

func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleResident, RoleSevak, RoleVendor, RoleAdmin, RoleFinance, RoleSuperAdmin:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))

	return err == nil
}

// IsStaff reports whether the role operates the platform rather than using it.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleFinance, RoleSuperAdmin:
		return true
	case RoleResident, RoleSevak, RoleVendor:
		return false
	default:
		return false
	}
}

// SelfRegistrable reports whether the role may be chosen at public sign up.
func (r Role) SelfRegistrable() bool {
	switch r {
	case RoleResident, RoleSevak, RoleVendor:
		return true
	case RoleAdmin, RoleFinance, RoleSuperAdmin:
		return false
	default:
		return false
	}
}

func (r Role) Can(permission Permission) bool {
	return Capabilities(r).Has(permission)
}

// Capabilities returns the permission set granted to a role.
func Capabilities(role Role) Set {
	switch role {
	case RoleResident:
		return NewSet(
			BookingCreate, BookingReadOwn, BookingReschedule, BookingCancel,
			PaymentCreate, PaymentRead, InvoiceRead, NotificationRead,
		)
	case RoleSevak:
		return NewSet(SevakJobs, NotificationRead)
	case RoleVendor:
		return NewSet(CatalogManage, NotificationRead)
	case RoleAdmin:
		return NewSet(
			BookingReadAll, BookingCancel, BookingAssign,
			SevakRead, SevakBlacklist, CatalogManage, UserManage,
			InvoiceRead, NotificationRead, DashboardRead,
		)
	case RoleFinance:
		return NewSet(
			BookingReadAll, PaymentRead, PaymentRefund,
			InvoiceRead, NotificationRead, DashboardRead,
		)
	case RoleSuperAdmin:
		return NewSet(All()...)
	default:
		return Set(0)
	}
}
