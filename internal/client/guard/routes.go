package guard

import "github.com/fyndrai/fyndr/internal/client/session"

// DefaultRoutes is the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: session.RouteHome, Public: true},
		{Path: session.RouteLogin, Public: true},
		{Path: session.RouteRegister, Public: true},

		{Path: "/profile"},
		{Path: "/notifications"},
		{Path: session.RouteJobSeekerOnboarding, Roles: []session.Role{session.RoleJobSeeker}},
		{Path: session.RouteRecruiterOnboarding, Roles: []session.Role{session.RoleRecruiter}},
		{Path: session.RouteCompanyOnboarding, Roles: []session.Role{session.RoleCompany}},

		{Path: session.RouteAdminDashboard, RequireOnboarding: true, Roles: []session.Role{session.RoleAdministrator}},
		{Path: session.RouteRecruiterDashboard, RequireOnboarding: true, Roles: []session.Role{session.RoleRecruiter}},
		{Path: session.RouteCompanyDashboard, RequireOnboarding: true, Roles: []session.Role{session.RoleCompany}},
		{Path: session.RouteJobSeekerDashboard, RequireOnboarding: true, Roles: []session.Role{session.RoleJobSeeker}},
		{Path: "/applications", RequireOnboarding: true},
		{Path: "/interviews", RequireOnboarding: true},
		{Path: "/mentorship", RequireOnboarding: true},
		{Path: "/career-fair", RequireOnboarding: true},
	}
}
