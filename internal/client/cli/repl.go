package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	SetProfile(ctx context.Context, args []string) error
	Open(ctx context.Context, path string) error
	Get(ctx context.Context, endpoint string) error
	Navbar(ctx context.Context, arg string) error
}

// runREPL reads commands from reader and dispatches them to a until the user
// exits, input ends or ctx is done. Command handlers read their prompt answers
// from the same reader, so no input is buffered away from them.
//
//	help                         show available commands
//	register                     create an account
//	login                        sign in and go to the landing page
//	logout                       end the session
//	whoami                       show the signed-in user
//	profile set k=v [k=v...]     update the profile
//	open <path>                  navigate to an application route
//	get <endpoint>               authenticated GET against the backend
//	navbar [on|off]              show or change the navbar preference
//	exit | quit                  leave the program
//
// Handler errors have already been reported to the user by the handler.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	say := func(args ...any) { fmt.Fprintln(w, args...) }

	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "fyndr (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				say("Available commands: whoami, profile set, open, get, navbar, logout, exit")
			} else {
				say("Available commands: register, login, open, navbar, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			if len(args) < 2 || args[0] != "set" {
				say("Usage: profile set name=value [name=value...]")
				continue
			}
			_ = a.SetProfile(ctx, args[1:])

		case "open":
			if len(args) != 1 {
				say("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "get":
			if len(args) != 1 {
				say("Usage: get <endpoint>")
				continue
			}
			_ = a.Get(ctx, args[0])

		case "navbar":
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			_ = a.Navbar(ctx, arg)

		case "exit", "quit":
			say("Bye!")
			return

		default:
			say("Unknown command:", cmd)
		}
	}
}
