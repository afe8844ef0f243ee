package permissions

import (
	"encoding/json"
	"fmt"
)

// Permission is a single capability checked at the route boundary.
type Permission int

const (
	BookingCreate Permission = iota + 1
	BookingReadOwn
	BookingReadAll
	BookingReschedule
	BookingCancel
	BookingAssign
	SevakJobs
	SevakRead
	SevakBlacklist
	PaymentCreate
	PaymentRead
	PaymentRefund
	InvoiceRead
	NotificationRead
	CatalogManage
	DashboardRead
	UserManage

	permissionEnd
)

func All() []Permission {
	all := make([]Permission, 0, permissionEnd-1)
	for p := BookingCreate; p < permissionEnd; p++ {
		all = append(all, p)
	}

	return all
}

func (p Permission) String() string {
	switch p {
	case BookingCreate:
		return "booking:create"
	case BookingReadOwn:
		return "booking:read_own"
	case BookingReadAll:
		return "booking:read_all"
	case BookingReschedule:
		return "booking:reschedule"
	case BookingCancel:
		return "booking:cancel"
	case BookingAssign:
		return "booking:assign"
	case SevakJobs:
		return "sevak:jobs"
	case SevakRead:
		return "sevak:read"
	case SevakBlacklist:
		return "sevak:blacklist"
	case PaymentCreate:
		return "payment:create"
	case PaymentRead:
		return "payment:read"
	case PaymentRefund:
		return "payment:refund"
	case InvoiceRead:
		return "invoice:read"
	case NotificationRead:
		return "notification:read"
	case CatalogManage:
		return "catalog:manage"
	case DashboardRead:
		return "dashboard:read"
	case UserManage:
		return "user:manage"
	case permissionEnd:
		return "invalid"
	default:
		return "invalid"
	}
}

func ParsePermission(value string) (Permission, error) {
	for _, p := range All() {
		if p.String() == value {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unknown permission %q", value)
}

func (p *Permission) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("permission must be a string: %w", err)
	}

	parsed, err := ParsePermission(value)
	if err != nil {
		return err
	}

	*p = parsed

	return nil
}

func (p Permission) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Set is a bitmask of permissions.
type Set uint64

func NewSet(perms ...Permission) Set {
	var set Set
	for _, p := range perms {
		set |= 1 << uint(p)
	}

	return set
}

func (s Set) Has(p Permission) bool {
	if p <= 0 || p >= permissionEnd {
		return false
	}

	return s&(1<<uint(p)) != 0
}
