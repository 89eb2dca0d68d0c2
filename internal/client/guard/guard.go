// Package guard decides, on every navigation, whether a route may render for
// the persisted session or where the user is redirected instead.
package guard

import (
	"context"
	"strings"

	"github.com/fyndrai/fyndr/internal/client/session"
)

// State is the session state a navigation is evaluated against.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedOnboardingPending
	AuthenticatedOnboardingComplete
)

func (s State) String() string {
	switch s {
	case AuthenticatedOnboardingPending:
		return "onboarding_pending"
	case AuthenticatedOnboardingComplete:
		return "onboarding_complete"
	default:
		return "unauthenticated"
	}
}

// Route describes a page. Public routes always render. Other routes need a
// session; RequireOnboarding routes also need completed onboarding. A
// non-empty Roles restricts the route to those roles.
type Route struct {
	Path              string
	Public            bool
	RequireOnboarding bool
	Roles             []session.Role
}

func (r Route) allows(role session.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Decision is the outcome of one check. Exactly one of Render and Redirect
// is meaningful: Redirect is empty when Render is true.
type Decision struct {
	Render   bool
	Redirect string
	State    State
}

// SessionReader is the part of session.Session the guard reads.
type SessionReader interface {
	Current(ctx context.Context) (session.UserRecord, bool)
}

// Guard evaluates routes against the session read at check time. It keeps
// no state between checks.
type Guard struct {
	session SessionReader
	routes  map[string]Route
}

// New builds a guard over routes. Paths are matched exactly after trailing
// slashes are removed.
func New(s SessionReader, routes []Route) *Guard {
	g := &Guard{session: s, routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		g.routes[cleanPath(r.Path)] = r
	}
	return g
}

// StateOf derives the navigation state from a session read. Administrators
// are stored as onboarding-complete by the session layer.
func StateOf(user session.UserRecord, ok bool) State {
	switch {
	case !ok:
		return Unauthenticated
	case user.OnboardingComplete:
		return AuthenticatedOnboardingComplete
	default:
		return AuthenticatedOnboardingPending
	}
}

// Check evaluates the route registered at path. Unknown paths redirect to
// the homepage.
func (g *Guard) Check(ctx context.Context, path string) Decision {
	user, ok := g.session.Current(ctx)
	route, known := g.routes[cleanPath(path)]
	if !known {
		return Decision{Redirect: session.RouteHome, State: StateOf(user, ok)}
	}
	return Decide(route, user, ok)
}

// Decide applies the route policy to a session read.
func Decide(route Route, user session.UserRecord, ok bool) Decision {
	state := StateOf(user, ok)
	d := Decision{State: state}

	switch {
	case route.Public:
		d.Render = true
	case state == Unauthenticated:
		d.Redirect = session.RouteLogin
	case !route.allows(user.Role):
		d.Redirect = session.LandingRoute(user.Role, user.OnboardingComplete)
	case route.RequireOnboarding && state == AuthenticatedOnboardingPending:
		d.Redirect = session.OnboardingRoute(user.Role)
	default:
		d.Render = true
	}
	return d
}

func cleanPath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
