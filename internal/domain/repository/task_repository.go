package repository

import (
	"context"

	"github.com/taskman-io/taskman/internal/domain/entity"
)

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// TaskRepository defines the interface for task-related database operations.
// Every method that addresses a single task takes the owner's user id and
// treats a row owned by somebody else exactly like a missing row.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	ListByOwner(ctx context.Context, userID int64) ([]entity.Task, error)
	GetByOwner(ctx context.Context, id, userID int64) (*entity.Task, error)
	UpdateByOwner(ctx context.Context, id, userID int64, patch TaskPatch) (*entity.Task, error)
	DeleteByOwner(ctx context.Context, id, userID int64) error
}
