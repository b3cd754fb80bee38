package entity

import "time"

// Caption is one generated caption owned by a user.
// Immutable after creation; only the owner can see or delete it.
type Caption struct {
	ID        string
	UserID    string
	Prompt    string
	Caption   string
	CreatedAt time.Time
}
