package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fyndrai/fyndr/internal/client/repositories/storage"
)

// UserRecord is the normalized profile persisted under the "user" key.
//
// It serialises as one flat JSON object: the identity fields below plus every
// entry of Fields at the top level.
type UserRecord struct {
	ID                 string
	Username           string
	Email              string
	FirstName          string
	LastName           string
	Role               Role
	OnboardingComplete bool

	// Fields holds the remaining profile data under camelCase keys.
	Fields map[string]any
}

// Field table for NormalizeProfile.
//
//	backend key                       record
//	id                                ID (numbers rendered as decimal)
//	username, email                   Username, Email
//	first_name, last_name             FirstName, LastName
//	role                              Role
//	onboarding_complete               OnboardingComplete; when absent at the top
//	                                  level, onboarding.onboarding_complete,
//	                                  onboarding.completed, then
//	                                  profile.onboarding_complete
//	profile.<k>                       Fields[camel(k)]
//	onboarding.<k>                    Fields[camel(k)], overriding profile
//	any other top-level <k>           Fields[camel(k)], overridden by both
//
// Identity fields missing at the top level are taken from the merged nested
// objects. Administrators are always onboarding-complete.
const (
	keyProfile            = "profile"
	keyOnboarding         = "onboarding"
	keyOnboardingComplete = "onboarding_complete"
)

var identityKeys = map[string]bool{
	"id":                  true,
	"username":            true,
	"email":               true,
	"firstName":           true,
	"lastName":            true,
	"role":                true,
	keyOnboardingComplete: true,
	"onboardingComplete":  true,
	"completed":           true,
}

// NormalizeProfile maps a decoded backend profile to a UserRecord. It does
// not modify raw and returns equal records for equal input.
func NormalizeProfile(raw map[string]any) UserRecord {
	merged := make(map[string]any)
	for k, v := range raw {
		if k == keyProfile || k == keyOnboarding {
			continue
		}
		merged[camelCase(k)] = v
	}
	profile, _ := raw[keyProfile].(map[string]any)
	onboarding, _ := raw[keyOnboarding].(map[string]any)
	for _, nested := range []map[string]any{profile, onboarding} {
		for k, v := range nested {
			merged[camelCase(k)] = v
		}
	}

	pick := func(key string) string {
		if v, ok := raw[key]; ok && v != nil {
			return stringValue(v)
		}
		return stringValue(merged[camelCase(key)])
	}

	rec := UserRecord{
		ID:        pick("id"),
		Username:  pick("username"),
		Email:     pick("email"),
		FirstName: pick("first_name"),
		LastName:  pick("last_name"),
		Role:      Role(pick("role")),
	}

	rec.OnboardingComplete = firstBool(
		raw[keyOnboardingComplete],
		onboarding[keyOnboardingComplete],
		onboarding["completed"],
		profile[keyOnboardingComplete],
	)
	if rec.Role == RoleAdministrator {
		rec.OnboardingComplete = true
	}

	for k, v := range merged {
		if identityKeys[k] {
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]any)
		}
		rec.Fields[k] = v
	}
	return rec
}

// DecodeProfile decodes a backend profile body and normalizes it. Numbers are
// kept as json.Number so identifiers survive unchanged.
func DecodeProfile(data []byte) (UserRecord, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return UserRecord{}, fmt.Errorf("decode profile: %w", err)
	}
	return NormalizeProfile(raw), nil
}

// OnboardingFlags returns the four per-role onboarding keys as stored: the
// user's own role carries its state, the others read "false".
func (u UserRecord) OnboardingFlags() map[string]string {
	flags := map[string]string{
		storage.KeyJobSeekerOnboardingComplete: "false",
		storage.KeyRecruiterOnboardingComplete: "false",
		storage.KeyCompanyOnboardingComplete:   "false",
		storage.KeyAdminOnboardingComplete:     "false",
	}
	if key, ok := onboardingFlagKey[u.Role]; ok {
		flags[key] = strconv.FormatBool(u.OnboardingComplete)
	}
	return flags
}

var onboardingFlagKey = map[Role]string{
	RoleJobSeeker:     storage.KeyJobSeekerOnboardingComplete,
	RoleRecruiter:     storage.KeyRecruiterOnboardingComplete,
	RoleCompany:       storage.KeyCompanyOnboardingComplete,
	RoleAdministrator: storage.KeyAdminOnboardingComplete,
}

// DisplayName is "First Last", falling back to the username.
func (u UserRecord) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u UserRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+7)
	for k, v := range u.Fields {
		out[k] = v
	}
	out["id"] = u.ID
	out["username"] = u.Username
	out["email"] = u.Email
	out["firstName"] = u.FirstName
	out["lastName"] = u.LastName
	out["role"] = string(u.Role)
	out[keyOnboardingComplete] = u.OnboardingComplete
	return json.Marshal(out)
}

func (u *UserRecord) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	rec := UserRecord{
		ID:                 stringValue(raw["id"]),
		Username:           stringValue(raw["username"]),
		Email:              stringValue(raw["email"]),
		FirstName:          stringValue(raw["firstName"]),
		LastName:           stringValue(raw["lastName"]),
		Role:               Role(stringValue(raw["role"])),
		OnboardingComplete: firstBool(raw[keyOnboardingComplete]),
	}
	for k, v := range raw {
		if identityKeys[k] {
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]any)
		}
		rec.Fields[k] = v
	}
	*u = rec
	return nil
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return raw, nil
}

// camelCase converts snake_case keys; keys without underscores are returned
// unchanged.
func camelCase(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	parts := strings.Split(strings.Trim(key, "_"), "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[size:])
	}
	return b.String()
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// firstBool returns the first value that reads as a boolean.
func firstBool(values ...any) bool {
	for _, v := range values {
		switch t := v.(type) {
		case bool:
			return t
		case string:
			if b, err := strconv.ParseBool(t); err == nil {
				return b
			}
		}
	}
	return false
}
