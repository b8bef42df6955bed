package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// ParseRole accepts any casing ("ADMIN", "Student") and returns the canonical role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStudent }

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	UniversityID string    `json:"universityId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RedirectURL is the landing page the client should open after sign-up or login.
func (u User) RedirectURL() string {
	if u.Role == RoleAdmin {
		return "/admin/" + u.ID
	}
	return "/student/" + u.ID
}
