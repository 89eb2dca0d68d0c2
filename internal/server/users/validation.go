package users

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
)

const (
	msgRequired         = "This field is required."
	msgInvalidEmail     = "Enter a valid email address."
	msgPasswordShort    = "This password is too short. It must contain at least 8 characters."
	msgPasswordNumeric  = "This password is entirely numeric."
	msgPasswordMismatch = "Password fields didn't match."
	msgUsernameTaken    = "A user with that username already exists."
	msgEmailTaken       = "user with this email already exists."
	msgReadOnly         = "This field cannot be changed."
	msgNotBoolean       = "Must be a valid boolean."
	msgNotString        = "Not a valid string."
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

var registrableRoles = []string{RoleJobSeeker, RoleRecruiter, RoleCompany}

// ValidationError carries per-field messages, rendered by the HTTP layer as
// {"field": ["message", ...]}.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.add(field, msg)
	return v
}

func validateRegistration(reg Registration) error {
	v := &ValidationError{}

	switch {
	case reg.Username == "":
		v.add("username", msgRequired)
	case !usernamePattern.MatchString(reg.Username):
		v.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if reg.Email == "" {
		v.add("email", msgRequired)
	} else if !validEmail(reg.Email) {
		v.add("email", msgInvalidEmail)
	}

	switch {
	case reg.Password == "":
		v.add("password", msgRequired)
	case len(reg.Password) < 8:
		v.add("password", msgPasswordShort)
	case strings.Trim(reg.Password, "0123456789") == "":
		v.add("password", msgPasswordNumeric)
	}
	if reg.Password != "" && reg.Password != reg.Password2 {
		v.add("password", msgPasswordMismatch)
	}

	if reg.Role == "" {
		v.add("role", msgRequired)
	} else if !slices.Contains(registrableRoles, reg.Role) {
		v.add("role", fmt.Sprintf("%q is not a valid choice.", reg.Role))
	}

	return v.orNil()
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func duplicateMessage(field string) string {
	if field == "email" {
		return msgEmailTaken
	}
	return msgUsernameTaken
}
