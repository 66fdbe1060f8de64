// Package routing holds the portal's navigation policy and the single
// redirect resolver every guard consults. Keeping the decision logic
// in one pure function is what stops independently mounted guards
// from silently disagreeing about who may see what.
package routing

import "github.com/otocare/booking-portal/internal/core/domain"

const (
	LoginPath    = "/login"
	RegisterPath = "/register"
)

// Policy is the static route policy: which paths are public, where
// each role lands, and which explicit cross-role exceptions exist.
type Policy struct {
	// PublicPaths are reachable without authentication. Includes the
	// two auth pages.
	PublicPaths map[string]struct{}
	// RoleHome maps each role to its dashboard.
	RoleHome map[domain.Role]string
	// CrossRoleAllowance lists path prefixes a role may reach outside
	// its own area.
	CrossRoleAllowance map[domain.Role][]string
	// RoleAreas are the per-role path prefixes used for cross-role
	// containment.
	RoleAreas []string
}

// DefaultPolicy returns the portal's route policy.
func DefaultPolicy() Policy {
	return Policy{
		PublicPaths: map[string]struct{}{
			"/":          {},
			"/services":  {},
			"/about":     {},
			"/contact":   {},
			LoginPath:    {},
			RegisterPath: {},
		},
		RoleHome: map[domain.Role]string{
			domain.RoleCustomer:   "/customer/dashboard",
			domain.RoleStaff:      "/staff/dashboard",
			domain.RoleTechnician: "/technician/dashboard",
			domain.RoleAdmin:      "/admin/dashboard",
		},
		CrossRoleAllowance: map[domain.Role][]string{
			// Technicians create invoices on a staff-owned page.
			domain.RoleTechnician: {"/staff/invoices/create"},
		},
		RoleAreas: []string{"/customer", "/staff", "/admin", "/technician"},
	}
}

// Home returns the dashboard for role, falling back to the site root
// for a role the table does not know.
func (p Policy) Home(role domain.Role) string {
	if home, ok := p.RoleHome[role]; ok {
		return home
	}
	return "/"
}

// Public reports whether path is an exact public path.
func (p Policy) Public(path string) bool {
	_, ok := p.PublicPaths[path]
	return ok
}
