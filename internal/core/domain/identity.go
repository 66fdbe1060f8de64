package domain

// Role is the global role carried by an identity. Every navigation
// decision in the portal keys off it.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleStaff      Role = "staff"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// Roles lists every role known to the portal.
var Roles = []Role{RoleCustomer, RoleStaff, RoleTechnician, RoleAdmin}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// Identity is the resolved user record backing access decisions.
//
// Two provenances exist: authoritative (fetched from the accounts
// backend) and degraded (synthesized from credential claims when the
// backend is unreachable). Authoritative data always supersedes
// degraded data within a single resolution.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name"`
}

// IdentityPatch carries a shallow partial update of an identity, used
// after in-place profile edits. Nil fields are left untouched.
type IdentityPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// TokenGrant is what the accounts backend returns on a successful
// login.
type TokenGrant struct {
	AccessToken string `json:"access_token"`
	Role        Role   `json:"role"`
}

// Registration is the profile submitted to the registration endpoint.
// The portal always attaches role "customer"; clients cannot choose.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}
