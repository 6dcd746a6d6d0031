package models

import (
	"time"
)

const (
	RoleParticipant = "participant"
	RoleOrganizer   = "organizer"
	RoleAdmin       = "admin"
)

// NormalizeRole maps a requested role onto the known set. Anything
// unknown or empty registers as a participant.
func NormalizeRole(role string) string {
	switch role {
	case RoleOrganizer, RoleAdmin:
		return role
	default:
		return RoleParticipant
	}
}

// ElevatedRole reports whether creating an account with this role
// requires an admin caller.
func ElevatedRole(role string) bool {
	return role == RoleOrganizer || role == RoleAdmin
}

// User is the credential record. Email is stored lowercased so the
// unique index gives case-insensitive uniqueness. RefreshToken holds the
// single active session token, empty when logged out.
type User struct {
	ID           string    `gorm:"primaryKey"           json:"id"`
	FirstName    string    `gorm:"not null"             json:"firstName"`
	LastName     string    `gorm:"not null"             json:"lastName"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Role         string    `gorm:"not null"             json:"role"`
	College      string    `json:"college,omitempty"`
	RefreshToken string    `gorm:"index"                json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
