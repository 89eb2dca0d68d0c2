package session

// Role is the account type reported by the backend.
type Role string

const (
	RoleJobSeeker     Role = "job_seeker"
	RoleRecruiter     Role = "recruiter"
	RoleCompany       Role = "company"
	RoleAdministrator Role = "administrator"
)

// Application routes the session layer redirects to.
const (
	RouteHome     = "/"
	RouteLogin    = "/login"
	RouteRegister = "/register"

	RouteAdminDashboard     = "/admin-dashboard"
	RouteRecruiterDashboard = "/recruiter-dashboard"
	RouteCompanyDashboard   = "/company-dashboard"
	RouteJobSeekerDashboard = "/job-seeker-dashboard"

	RouteRecruiterOnboarding = "/recruiter-onboarding"
	RouteCompanyOnboarding   = "/company-onboarding"
	RouteJobSeekerOnboarding = "/job-seeker-onboarding"
)

type roleRoutes struct {
	dashboard  string
	onboarding string // empty when the role has no onboarding flow
}

var routesByRole = map[Role]roleRoutes{
	RoleAdministrator: {dashboard: RouteAdminDashboard},
	RoleRecruiter:     {dashboard: RouteRecruiterDashboard, onboarding: RouteRecruiterOnboarding},
	RoleCompany:       {dashboard: RouteCompanyDashboard, onboarding: RouteCompanyOnboarding},
	RoleJobSeeker:     {dashboard: RouteJobSeekerDashboard, onboarding: RouteJobSeekerOnboarding},
}

// Known reports whether r is one of the four platform roles.
func (r Role) Known() bool {
	_, ok := routesByRole[r]
	return ok
}

// NeedsOnboarding reports whether the role has an onboarding flow at all.
// Administrators do not.
func (r Role) NeedsOnboarding() bool {
	return routesByRole[r].onboarding != ""
}

// LandingRoute is where a user goes after signing in:
//
//	administrator                       -> admin dashboard
//	recruiter, company, job_seeker      -> dashboard if onboarding is complete,
//	                                       onboarding wizard otherwise
//	anything else                       -> homepage
func LandingRoute(role Role, onboardingComplete bool) string {
	rr, ok := routesByRole[role]
	switch {
	case !ok:
		return RouteHome
	case rr.onboarding == "" || onboardingComplete:
		return rr.dashboard
	default:
		return rr.onboarding
	}
}

// OnboardingRoute returns the role's onboarding wizard, or the landing route
// for roles without one.
func OnboardingRoute(role Role) string {
	if rr, ok := routesByRole[role]; ok && rr.onboarding != "" {
		return rr.onboarding
	}
	return LandingRoute(role, true)
}
