package entity

import (
	"time"
)

// Task belongs to exactly one user and is only reachable through requests
// authenticated as that user.
// UpdatedAt stays nil until the task is modified for the first time.
type Task struct {
	ID          int64
	Title       string
	Description string
	IsCompleted bool
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
