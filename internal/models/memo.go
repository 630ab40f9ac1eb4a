package models

import "time"

// Memo is a free-text note owned by a single user.
type Memo struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}
