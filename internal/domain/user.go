package domain

import "strings"

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

var KnownRoles = map[Role]struct{}{
	RolePatient: {}, RoleDoctor: {}, RoleStaff: {}, RoleAdmin: {},
}

// ParseRole accepts any casing ("admin", "Admin", "ADMIN").
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := KnownRoles[r]
	return r, ok
}

// IsStaffLike reports whether the role sees hospital-wide data.
func (r Role) IsStaffLike() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Role              Role   `json:"role"`
	Avatar            string `json:"avatar,omitempty"`
	IsProfileComplete bool   `json:"isProfileComplete"`
}

func (u User) RecordID() string { return u.ID }

// NormalizeEmail returns the form emails are compared in.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NeedsProfile is true for patients who have not filled in their profile yet.
func (u User) NeedsProfile() bool {
	return u.Role == RolePatient && !u.IsProfileComplete
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name              *string `json:"name,omitempty"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Avatar            *string `json:"avatar,omitempty"`
	IsProfileComplete *bool   `json:"isProfileComplete,omitempty"`
}

func (p UserUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.IsProfileComplete != nil {
		u.IsProfileComplete = *p.IsProfileComplete
	}
}
