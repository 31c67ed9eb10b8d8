package users

import "fmt"

// Role is the single role assigned to every user. Permissions and the
// navigation set shown by clients derive from it exhaustively; an
// unrecognized role is an error rather than an empty menu.
type Role string

const (
	RoleSuperAdmin Role = "super_admin" // Manages admin accounts and system configuration
	RoleAdmin      Role = "admin"       // Manages products, dealers, and order approval
	RoleDealer     Role = "dealer"      // Orders stock, sells, manages staff and inventory
	RoleEmployee   Role = "employee"    // Sells products, clocks attendance
	RoleServiceman Role = "serviceman"  // Handles assigned service requests, clocks attendance
	RoleCustomer   Role = "customer"    // Buys products, raises service requests
)

// ParseRole validates a role string from a request or a stored record.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleDealer, RoleEmployee, RoleServiceman, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// NavigationSet is the set of top-level sections a client shows for a role.
type NavigationSet []string

// Navigation returns the navigation set for the role. The switch is
// exhaustive over all defined roles; an unknown role returns an error so
// callers cannot silently render an empty menu.
func (r Role) Navigation() (NavigationSet, error) {
	switch r {
	case RoleSuperAdmin:
		return NavigationSet{"dashboard", "admins", "system", "logs"}, nil
	case RoleAdmin:
		return NavigationSet{"dashboard", "products", "orders", "dealers", "analytics"}, nil
	case RoleDealer:
		return NavigationSet{"dashboard", "orders", "sales", "inventory", "staff", "attendance", "services"}, nil
	case RoleEmployee:
		return NavigationSet{"dashboard", "sales", "attendance"}, nil
	case RoleServiceman:
		return NavigationSet{"dashboard", "services", "attendance"}, nil
	case RoleCustomer:
		return NavigationSet{"products", "orders", "purchases", "services"}, nil
	}
	return nil, fmt.Errorf("no navigation defined for role %q", r)
}

// CanClockAttendance reports whether the role participates in attendance
// tracking.
func (r Role) CanClockAttendance() bool {
	return r == RoleEmployee || r == RoleServiceman
}

// CanSell reports whether the role may record sales.
func (r Role) CanSell() bool {
	return r == RoleDealer || r == RoleEmployee
}
