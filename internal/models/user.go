package models

import (
	"strings"
	"time"
)

// Role is the account category fixed at signup.
type Role string

const (
	RoleCompany    Role = "company"
	RoleIndividual Role = "individual"
)

// ParseRole maps a form value to a Role, falling back to RoleIndividual.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCompany:
		return RoleCompany
	default:
		return RoleIndividual
	}
}

// Landing returns the page a user of this role is sent to after verification
// or when a role guard turns them away.
func (r Role) Landing() string {
	if r == RoleCompany {
		return "/company"
	}
	return "/"
}

// User is a registered account. A user is either pending verification
// (IsVerified false, OTPCode set) or verified (IsVerified true, OTPCode nil).
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone        string     `gorm:"size:64" json:"phone,omitempty"`
	Role         Role       `gorm:"size:16;not null;default:individual" json:"role"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"` // bcrypt, never exposed
	CreatedAt    time.Time  `json:"created_at"`
	IsVerified   bool       `gorm:"not null;default:false" json:"is_verified"`
	OTPCode      *string    `gorm:"column:otp_code;size:6" json:"-"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at" json:"-"`
}

// IsCompany reports whether the account may post jobs.
func (u *User) IsCompany() bool { return u != nil && u.Role == RoleCompany }

// PendingVerification reports whether a code is outstanding for the user.
func (u *User) PendingVerification() bool {
	return u != nil && !u.IsVerified && u.OTPCode != nil
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
