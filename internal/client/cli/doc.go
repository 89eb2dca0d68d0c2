// Package cli provides the interactive Fyndr command-line client.
//
// It wires configuration, the session store, the HTTP client, the token
// manager, the session layer and the route guard, then runs a REPL that plays
// the part of the web front end: sign in and out, inspect and edit the
// profile, navigate to application routes through the guard, and issue raw
// authenticated GET requests.
//
// A background watcher prints a notice when the session is ended elsewhere,
// for example by another process sharing a Redis-backed store.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
