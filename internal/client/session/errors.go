package session

import (
	"errors"
	"sort"
	"strings"

	"github.com/fyndrai/fyndr/internal/client/api"
)

const (
	// MessageEmailExists replaces the backend's email uniqueness error.
	MessageEmailExists = "A user with this email already exists."
	// MessageGenericFailure is shown for errors that carry no form feedback.
	MessageGenericFailure = "Something went wrong. Please try again."
)

// FormErrors is the form feedback for a failed login, registration or profile
// update: messages per field and one banner for everything else.
type FormErrors struct {
	Fields map[string]string
	Banner string
	Err    error
}

func (e *FormErrors) Error() string {
	if e.Banner != "" {
		return e.Banner
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *FormErrors) Unwrap() error { return e.Err }

// NewFormErrors maps a request error to form feedback. Field arrays are joined
// with a space; non_field_errors, detail and message go to the banner. An
// email error saying the address already exists becomes the banner and the
// email field is cleared. Errors without a JSON body get a generic banner.
func NewFormErrors(err error) *FormErrors {
	fe := &FormErrors{Fields: map[string]string{}, Err: err}

	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		fe.Banner = MessageGenericFailure
		return fe
	}

	for field, msgs := range httpErr.Fields {
		text := strings.Join(msgs, " ")
		if field == "non_field_errors" {
			fe.Banner = text
			continue
		}
		fe.Fields[field] = text
	}

	if msg, ok := fe.Fields["email"]; ok && strings.Contains(strings.ToLower(msg), "already exists") {
		fe.Banner = MessageEmailExists
		delete(fe.Fields, "email")
	}

	switch {
	case fe.Banner != "":
	case httpErr.Detail != "":
		fe.Banner = httpErr.Detail
	case len(fe.Fields) == 0:
		fe.Banner = httpErr.Message
	}
	return fe
}
