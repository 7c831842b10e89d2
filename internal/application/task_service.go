package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/taskman-io/taskman/internal/domain/entity"
	repo "github.com/taskman-io/taskman/internal/domain/repository"
)

var (
	// ErrTaskNotFound is returned both for tasks that do not exist and for
	// tasks owned by another user.
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyTitle   = errors.New("title must not be empty")
)

// TaskService implements the ownership-scoped task operations. Every method
// takes the id of the authenticated user; the repository never sees a query
// that is not constrained to that owner.
type TaskService struct {
	Tasks  repo.TaskRepository
	Logger *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Logger: logger}
}

type CreateTaskInput struct {
	Title       string
	Description string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, in CreateTaskInput) (*entity.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		UserID:      ownerID,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, ownerID int64) ([]entity.Task, error) {
	return s.Tasks.ListByOwner(ctx, ownerID)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (*entity.Task, error) {
	t, err := s.Tasks.GetByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update applies only the supplied fields and refreshes the modification
// timestamp. An empty patch is valid and touches nothing but updated_at.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, in UpdateTaskInput) (*entity.Task, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, ErrEmptyTitle
	}
	t, err := s.Tasks.UpdateByOwner(ctx, id, ownerID, repo.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		IsCompleted: in.IsCompleted,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.Tasks.DeleteByOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}
