package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskman-io/taskman/internal/domain/entity"
	"github.com/taskman-io/taskman/internal/domain/repository"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, user_id)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, is_completed, created_at
	`, t.Title, t.Description, t.UserID)

	return row.Scan(&t.ID, &t.IsCompleted, &t.CreatedAt)
}

func (r *TaskRepository) ListByOwner(ctx context.Context, userID int64) ([]entity.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, COALESCE(description, ''), is_completed, user_id, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted,
			&t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByOwner(ctx context.Context, id, userID int64) (*entity.Task, error) {
	t := &entity.Task{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, COALESCE(description, ''), is_completed, user_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// UpdateByOwner applies the patch in a single statement so the read-modify-
// write cannot race against a concurrent update on the same row. Nil patch
// fields keep the stored value.
func (r *TaskRepository) UpdateByOwner(ctx context.Context, id, userID int64, patch repository.TaskPatch) (*entity.Task, error) {
	t := &entity.Task{}
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks SET
			title        = COALESCE($3, title),
			description  = CASE WHEN $4::text IS NULL THEN description ELSE NULLIF($4, '') END,
			is_completed = COALESCE($5, is_completed),
			updated_at   = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, COALESCE(description, ''), is_completed, user_id, created_at, updated_at
	`, id, userID, patch.Title, patch.Description, patch.IsCompleted)

	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted,
		&t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, id, userID int64) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
