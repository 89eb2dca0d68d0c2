package users

import (
	"maps"
	"time"
)

const (
	RoleJobSeeker     = "job_seeker"
	RoleRecruiter     = "recruiter"
	RoleCompany       = "company"
	RoleAdministrator = "administrator"
)

type User struct {
	ID                 string
	UserName           string
	Email              string
	FirstName          string
	LastName           string
	Role               string
	PasswordHash       []byte
	OnboardingComplete bool
	// Profile holds role-specific details (headline, company name, skills...)
	// that the backend stores without interpreting.
	Profile   map[string]any
	CreatedAt time.Time
}

func (u *User) clone() *User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.Profile = maps.Clone(u.Profile)
	return &c
}

// Details returns a copy of the user's free-form profile details.
func (u *User) Details() map[string]any {
	return maps.Clone(u.Profile)
}
