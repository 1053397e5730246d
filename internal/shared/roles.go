package shared

import "strings"

// Role identifies the dashboard a user is allowed to see.
type Role string

// Commission roles.
const (
	RoleCommissionAdmin     Role = "COMMISSION_ADMIN"
	RoleFinanceOfficer      Role = "FINANCE_OFFICER"
	RoleImmigrationOfficer  Role = "IMMIGRATION_OFFICER"
	RolePersonnel           Role = "PERSONNEL"
	RoleJVCoordinator       Role = "JV_COORDINATOR"
	RoleLocalContentOfficer Role = "LOCAL_CONTENT_OFFICER"
	RoleCompanyAdmin        Role = "COMPANY_ADMIN"
)

const (
	// LoginRoute is where unauthenticated visitors are sent.
	LoginRoute = "/login"
	// HomeRoute is the fallback for roles without a dashboard.
	HomeRoute = "/"
	// ReturnToParam carries the originally requested path through login.
	ReturnToParam = "returnTo"
)

var landingRoutes = map[Role]string{
	RoleCommissionAdmin:     "/dashboard/admin",
	RoleFinanceOfficer:      "/dashboard/finance",
	RoleImmigrationOfficer:  "/dashboard/immigration",
	RolePersonnel:           "/dashboard/personnel",
	RoleJVCoordinator:       "/dashboard/jv-coordinator",
	RoleLocalContentOfficer: "/dashboard/local-content",
	RoleCompanyAdmin:        "/dashboard/company",
}

// ParseRole normalises a stored role string. Unknown roles are returned as-is
// so callers can still route them to HomeRoute.
func ParseRole(raw string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(raw)))
}

// Valid reports whether r is one of the commission roles.
func (r Role) Valid() bool {
	_, ok := landingRoutes[r]
	return ok
}

// LandingRoute returns the dashboard path for a role.
func LandingRoute(r Role) string {
	if route, ok := landingRoutes[r]; ok {
		return route
	}
	return HomeRoute
}

// Roles lists every commission role in a stable order.
func Roles() []Role {
	return []Role{
		RoleCommissionAdmin,
		RoleFinanceOfficer,
		RoleImmigrationOfficer,
		RolePersonnel,
		RoleJVCoordinator,
		RoleLocalContentOfficer,
		RoleCompanyAdmin,
	}
}
