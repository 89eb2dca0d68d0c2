package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fyndrai/fyndr/internal/client/api"
	"github.com/fyndrai/fyndr/internal/client/session"
	"github.com/fyndrai/fyndr/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the sign-up fields and creates an account. Form
// feedback from the backend is printed; the user is not signed in.
func (a *App) Register(ctx context.Context) error {
	var reg api.Registration
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Username", &reg.Username},
		{"Email", &reg.Email},
		{"First name", &reg.FirstName},
		{"Last name", &reg.LastName},
		{"Role (job_seeker, recruiter, company)", &reg.Role},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	reg.Password = string(password)
	reg.Password2 = reg.Password

	if err := a.session.Register(ctx, reg); err != nil {
		a.printError(err)
		return err
	}
	fmt.Fprintln(a.out, "Account created. You can log in now.")
	return nil
}

// Login prompts for credentials, signs in and navigates to the landing route.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.session.Login(ctx, api.Credentials{Username: username, Password: string(password)})
	if err != nil {
		a.printError(err)
		return err
	}
	a.ended.Store(false)

	fmt.Fprintf(a.out, "Welcome, %s.\n", res.User.DisplayName())
	return a.Open(ctx, res.Route)
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	a.ended.Store(true)
	if err := a.session.Logout(ctx); err != nil {
		a.printError(err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	user, ok := a.session.Current(ctx)
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	onboarding := "pending"
	if user.OnboardingComplete {
		onboarding = "complete"
	}
	fmt.Fprintf(a.out, "%s <%s>\n", user.DisplayName(), user.Email)
	fmt.Fprintf(a.out, "role: %s, onboarding: %s, home: %s\n",
		user.Role, onboarding, session.LandingRoute(user.Role, user.OnboardingComplete))
	return nil
}

// printError renders an error the way the web client would: form feedback
// per field and in a banner, a forced return to the login page after a
// failed session recovery, and a plain message otherwise.
func (a *App) printError(err error) {
	var fe *session.FormErrors
	if errors.As(err, &fe) {
		if fe.Banner != "" {
			fmt.Fprintln(a.out, fe.Banner)
		}
		fields := make([]string, 0, len(fe.Fields))
		for f := range fe.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(a.out, "  %s: %s\n", f, fe.Fields[f])
		}
		return
	}

	if route, ok := a.session.HandleAuthFailure(context.Background(), err); ok {
		a.ended.Store(true)
		fmt.Fprintf(a.out, "Your session has expired. Please log in again (%s).\n", route)
		return
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		fmt.Fprintf(a.out, "Cannot reach the server at %s.\n", netErr.URL)
		return
	}
	fmt.Fprintln(a.out, "Error:", err)
}
