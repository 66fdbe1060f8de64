package routing

import (
	"strings"

	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/session"
)

// DecisionKind is the outcome of a guard evaluation.
type DecisionKind int

const (
	// Pending: the session is still bootstrapping. Render a neutral
	// placeholder; commit to neither Render nor Redirect.
	Pending DecisionKind = iota
	// Render: let the page through.
	Render
	// Redirect: send the visitor to Target instead.
	Redirect
)

// Decision is a resolver verdict. For redirects to the login page,
// From carries the originally requested path so login can resume it.
type Decision struct {
	Kind   DecisionKind
	Target string
	From   string
}

func render() Decision  { return Decision{Kind: Render} }
func pending() Decision { return Decision{Kind: Pending} }

func redirect(target string) Decision {
	return Decision{Kind: Redirect, Target: target}
}

func loginRedirect(from string) Decision {
	return Decision{Kind: Redirect, Target: LoginPath, From: from}
}

// ScopeKind selects which slice of the policy a guard enforces.
type ScopeKind int

const (
	// ScopePublic guards the public pages (marketing plus the two
	// auth pages): logged-in visitors are bounced to their dashboard.
	ScopePublic ScopeKind = iota
	// ScopeProtected guards authenticated pages, optionally limited
	// to an explicit role allow-list.
	ScopeProtected
	// ScopeAdmin guards the admin area.
	ScopeAdmin
	// ScopeContain is the router-wide cross-role containment: an
	// authenticated visitor straying into another role's area is sent
	// home.
	ScopeContain
)

// Scope pairs a kind with its optional role allow-list.
type Scope struct {
	Kind         ScopeKind
	AllowedRoles []domain.Role
}

func Public() Scope  { return Scope{Kind: ScopePublic} }
func Admin() Scope   { return Scope{Kind: ScopeAdmin} }
func Contain() Scope { return Scope{Kind: ScopeContain} }

// Protected returns a protected scope. With no roles given, any
// authenticated visitor passes.
func Protected(roles ...domain.Role) Scope {
	return Scope{Kind: ScopeProtected, AllowedRoles: roles}
}

// Name labels the scope for logs and metrics.
func (s Scope) Name() string {
	switch s.Kind {
	case ScopePublic:
		return "public"
	case ScopeProtected:
		return "protected"
	case ScopeAdmin:
		return "admin"
	case ScopeContain:
		return "contain"
	}
	return "unknown"
}

// Resolver evaluates navigation decisions against a fixed policy. It
// is pure: no session mutation, no I/O.
type Resolver struct {
	policy Policy
}

func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// Resolve decides what happens when a session navigates to path under
// the given guard scope. Rules are evaluated top to bottom; the first
// match wins. Every scope suspends on a loading session.
func (r *Resolver) Resolve(snap session.Snapshot, path string, scope Scope) Decision {
	if snap.Loading {
		return pending()
	}

	switch scope.Kind {
	case ScopePublic:
		return r.resolvePublic(snap, path)
	case ScopeProtected:
		return r.resolveProtected(snap, path, scope.AllowedRoles)
	case ScopeAdmin:
		return r.resolveAdmin(snap, path)
	case ScopeContain:
		return r.resolveContain(snap, path)
	}
	return render()
}

func (r *Resolver) resolvePublic(snap session.Snapshot, path string) Decision {
	if !snap.Authenticated() {
		if r.policy.Public(path) {
			return render()
		}
		return loginRedirect(path)
	}

	role := snap.Identity.Role
	home := r.policy.Home(role)

	// Logged-in visitors do not see the marketing pages.
	if r.policy.Public(path) && path != LoginPath && path != RegisterPath {
		return redirect(home)
	}

	if path == LoginPath || path == RegisterPath {
		// Technicians are bounced home even from the auth pages; the
		// asymmetry is a long-standing product behavior, kept as-is.
		if role == domain.RoleTechnician {
			return redirect(home)
		}
		return render()
	}

	if r.inOwnArea(role, path) || r.crossAllowed(role, path) {
		return render()
	}
	if r.inOtherArea(role, path) {
		return redirect(home)
	}

	// Unrecognized path: pass through, not-found handling lives
	// elsewhere.
	return render()
}

func (r *Resolver) resolveProtected(snap session.Snapshot, path string, allowed []domain.Role) Decision {
	if !snap.Authenticated() {
		return loginRedirect(path)
	}

	role := snap.Identity.Role
	if len(allowed) > 0 && !roleIn(role, allowed) {
		return redirect(r.policy.Home(role))
	}
	return render()
}

func (r *Resolver) resolveAdmin(snap session.Snapshot, path string) Decision {
	if !snap.Authenticated() {
		return loginRedirect(path)
	}
	if snap.Identity.Role != domain.RoleAdmin {
		return redirect(r.policy.Home(snap.Identity.Role))
	}
	return render()
}

// resolveContain only acts on authenticated visitors inside another
// role's area; everything else falls through to the inner guards.
func (r *Resolver) resolveContain(snap session.Snapshot, path string) Decision {
	if !snap.Authenticated() {
		return render()
	}

	role := snap.Identity.Role
	if r.inOwnArea(role, path) || r.crossAllowed(role, path) {
		return render()
	}
	if r.inOtherArea(role, path) {
		return redirect(r.policy.Home(role))
	}
	return render()
}

func (r *Resolver) inOwnArea(role domain.Role, path string) bool {
	return strings.HasPrefix(path, "/"+string(role))
}

func (r *Resolver) crossAllowed(role domain.Role, path string) bool {
	for _, prefix := range r.policy.CrossRoleAllowance[role] {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (r *Resolver) inOtherArea(role domain.Role, path string) bool {
	own := "/" + string(role)
	for _, area := range r.policy.RoleAreas {
		if area != own && strings.HasPrefix(path, area) {
			return true
		}
	}
	return false
}

func roleIn(role domain.Role, roles []domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
