package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash is a bcrypt hash; it is empty for accounts created through an
// external identity provider, in which case ExternalID is set. After an
// account is linked both may be present.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ExternalID   string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account supports credential login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
