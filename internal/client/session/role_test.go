package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLandingRoute(t *testing.T) {
	tests := []struct {
		role     Role
		complete bool
		want     string
	}{
		{RoleAdministrator, false, RouteAdminDashboard},
		{RoleAdministrator, true, RouteAdminDashboard},
		{RoleRecruiter, true, RouteRecruiterDashboard},
		{RoleRecruiter, false, RouteRecruiterOnboarding},
		{RoleCompany, true, RouteCompanyDashboard},
		{RoleCompany, false, RouteCompanyOnboarding},
		{RoleJobSeeker, true, RouteJobSeekerDashboard},
		{RoleJobSeeker, false, RouteJobSeekerOnboarding},
		{Role("mentor"), true, RouteHome},
		{Role(""), false, RouteHome},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LandingRoute(tt.role, tt.complete), "%s complete=%v", tt.role, tt.complete)
	}
}

func TestOnboardingRoute(t *testing.T) {
	assert.Equal(t, RouteJobSeekerOnboarding, OnboardingRoute(RoleJobSeeker))
	assert.Equal(t, RouteAdminDashboard, OnboardingRoute(RoleAdministrator))
	assert.Equal(t, RouteHome, OnboardingRoute(Role("guest")))
	assert.True(t, RoleCompany.Known())
	assert.False(t, RoleAdministrator.NeedsOnboarding())
}
