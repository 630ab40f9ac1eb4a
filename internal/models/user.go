package models

import "time"

// User is the persisted account record. PasswordHash is nil for accounts
// provisioned without credentials; such users cannot log in with a password.
type User struct {
	ID           string
	Email        string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
