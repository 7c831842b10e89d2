package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt digest and must never appear in API output.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
