package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskman-io/taskman/internal/domain/entity"
	"github.com/taskman-io/taskman/internal/domain/repository"
)

type TaskRepository struct {
	mu    sync.RWMutex
	seq   int64
	tasks map[int64]entity.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[int64]entity.Task)}
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = r.seq
	t.IsCompleted = false
	t.CreatedAt = time.Now()
	t.UpdatedAt = nil
	r.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) ListByOwner(_ context.Context, userID int64) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TaskRepository) GetByOwner(_ context.Context, id, userID int64) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TaskRepository) UpdateByOwner(_ context.Context, id, userID int64, patch repository.TaskPatch) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	now := time.Now()
	t.UpdatedAt = &now
	r.tasks[id] = t
	return &t, nil
}

func (r *TaskRepository) DeleteByOwner(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
