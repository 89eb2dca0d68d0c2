// Package session turns backend authentication responses into persisted
// session state and decides where a user lands after signing in.
//
// NormalizeProfile is the single mapping from the backend profile payload to
// the UserRecord the rest of the client reads. Session wires it to the HTTP
// client and the session store: Login, Register, UpdateProfile, Reload,
// Logout, Current and Watch.
package session
