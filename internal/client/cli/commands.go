package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Open navigates to path through the route guard and follows at most one
// redirect.
func (a *App) Open(ctx context.Context, path string) error {
	d := a.guard.Check(ctx, path)
	if d.Render {
		fmt.Fprintf(a.out, "[%s]\n", path)
		return nil
	}

	fmt.Fprintf(a.out, "%s -> %s\n", path, d.Redirect)
	if next := a.guard.Check(ctx, d.Redirect); next.Render {
		fmt.Fprintf(a.out, "[%s]\n", d.Redirect)
	}
	return nil
}

// Get issues an authenticated GET and prints the JSON payload.
func (a *App) Get(ctx context.Context, endpoint string) error {
	raw, err := a.client.Request(ctx, endpoint, http.MethodGet, nil)
	if err != nil {
		a.printError(err)
		return err
	}
	if len(raw) == 0 {
		fmt.Fprintln(a.out, "(empty response)")
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(a.out, string(raw))
		return nil
	}
	fmt.Fprintln(a.out, buf.String())
	return nil
}

// SetProfile sends name=value changes to the profile endpoint.
func (a *App) SetProfile(ctx context.Context, args []string) error {
	changes, err := parseAssignments(args)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: profile set name=value [name=value...]")
		return err
	}
	user, err := a.session.UpdateProfile(ctx, changes)
	if err != nil {
		a.printError(err)
		return err
	}
	fmt.Fprintf(a.out, "Profile updated for %s.\n", user.DisplayName())
	return nil
}

// Navbar shows or changes the navbar preference.
func (a *App) Navbar(ctx context.Context, arg string) error {
	switch strings.ToLower(arg) {
	case "":
	case "on", "show":
		if err := a.session.SetNavbarVisible(ctx, true); err != nil {
			return err
		}
	case "off", "hide":
		if err := a.session.SetNavbarVisible(ctx, false); err != nil {
			return err
		}
	default:
		fmt.Fprintln(a.out, "Usage: navbar [on|off]")
		return nil
	}
	state := "hidden"
	if a.session.NavbarVisible(ctx) {
		state = "visible"
	}
	fmt.Fprintln(a.out, "navbar", state)
	return nil
}
