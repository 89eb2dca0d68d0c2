package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyndrai/fyndr/internal/client/session"
)

type fakeSession struct {
	user session.UserRecord
	ok   bool
}

func (f *fakeSession) Current(context.Context) (session.UserRecord, bool) {
	return f.user, f.ok
}

func TestCheck_NoSessionNeverRendersGatedRoutes(t *testing.T) {
	g := New(&fakeSession{}, DefaultRoutes())
	for _, r := range DefaultRoutes() {
		d := g.Check(context.Background(), r.Path)
		if r.Public {
			assert.True(t, d.Render, r.Path)
			continue
		}
		assert.False(t, d.Render, r.Path)
		assert.Equal(t, session.RouteLogin, d.Redirect, r.Path)
		assert.Equal(t, Unauthenticated, d.State)
	}
}

func TestCheck_Policy(t *testing.T) {
	pendingSeeker := &fakeSession{ok: true, user: session.UserRecord{Role: session.RoleJobSeeker}}
	doneSeeker := &fakeSession{ok: true, user: session.UserRecord{Role: session.RoleJobSeeker, OnboardingComplete: true}}
	doneRecruiter := &fakeSession{ok: true, user: session.UserRecord{Role: session.RoleRecruiter, OnboardingComplete: true}}
	admin := &fakeSession{ok: true, user: session.UserRecord{Role: session.RoleAdministrator, OnboardingComplete: true}}
	pendingUnknown := &fakeSession{ok: true, user: session.UserRecord{Role: "mentor"}}

	tests := []struct {
		name     string
		sess     *fakeSession
		path     string
		render   bool
		redirect string
	}{
		{"public for anyone", pendingSeeker, "/login", true, ""},
		{"auth-only renders while pending", pendingSeeker, "/profile", true, ""},
		{"gated redirects pending to wizard", pendingSeeker, "/applications", false, session.RouteJobSeekerOnboarding},
		{"own dashboard gated while pending", pendingSeeker, "/job-seeker-dashboard", false, session.RouteJobSeekerOnboarding},
		{"gated renders when complete", doneSeeker, "/applications", true, ""},
		{"trailing slash matches", doneSeeker, "/job-seeker-dashboard/", true, ""},
		{"other role's dashboard redirects home dashboard", doneRecruiter, "/job-seeker-dashboard", false, session.RouteRecruiterDashboard},
		{"admin dashboard", admin, "/admin-dashboard", true, ""},
		{"wizard of another role", admin, "/company-onboarding", false, session.RouteAdminDashboard},
		{"unknown role pending goes home", pendingUnknown, "/career-fair", false, session.RouteHome},
		{"unknown path", doneSeeker, "/nowhere", false, session.RouteHome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.sess, DefaultRoutes()).Check(context.Background(), tt.path)
			assert.Equal(t, tt.render, d.Render)
			assert.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestCheck_ReadsSessionEveryTime(t *testing.T) {
	sess := &fakeSession{}
	g := New(sess, DefaultRoutes())

	assert.Equal(t, session.RouteLogin, g.Check(context.Background(), "/mentorship").Redirect)

	sess.ok = true
	sess.user = session.UserRecord{Role: session.RoleCompany, OnboardingComplete: true}
	assert.True(t, g.Check(context.Background(), "/mentorship").Render)

	sess.ok = false
	assert.False(t, g.Check(context.Background(), "/mentorship").Render)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, Unauthenticated, StateOf(session.UserRecord{OnboardingComplete: true}, false))
	assert.Equal(t, AuthenticatedOnboardingPending, StateOf(session.UserRecord{Role: session.RoleCompany}, true))
	assert.Equal(t, AuthenticatedOnboardingComplete, StateOf(session.UserRecord{Role: session.RoleCompany, OnboardingComplete: true}, true))
	assert.Equal(t, "onboarding_pending", AuthenticatedOnboardingPending.String())
}
