package storage

// Keys used for the persisted session.
const (
	KeyAccessToken     = "accessToken"
	KeyRefreshToken    = "refreshToken"
	KeyUser            = "user"
	KeyIsAuthenticated = "isAuthenticated"
	KeyUserRole        = "userRole"

	KeyJobSeekerOnboardingComplete = "jobSeekerOnboardingComplete"
	KeyRecruiterOnboardingComplete = "recruiterOnboardingComplete"
	KeyCompanyOnboardingComplete   = "companyOnboardingComplete"
	KeyAdminOnboardingComplete     = "adminOnboardingComplete"

	KeyNavbarVisible = "navbarVisible"
)

// SessionKeys lists every key cleared on logout. KeyNavbarVisible is a UI
// preference and survives logout.
var SessionKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyUser,
	KeyIsAuthenticated,
	KeyUserRole,
	KeyJobSeekerOnboardingComplete,
	KeyRecruiterOnboardingComplete,
	KeyCompanyOnboardingComplete,
	KeyAdminOnboardingComplete,
}
