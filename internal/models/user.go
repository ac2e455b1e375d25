package models

import "time"

// User roles
const (
	RoleAdmin  = "admin"
	RoleNormal = "normal"
)

// User represents an application user
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"` // admin or normal
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session represents an authenticated login session
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
