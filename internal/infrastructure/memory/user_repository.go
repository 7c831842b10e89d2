// Package memory provides in-memory repository implementations backing the
// test suites and local experimentation without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/taskman-io/taskman/internal/domain/entity"
	"github.com/taskman-io/taskman/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	seq   int64
	users map[int64]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repository.ErrConflict
		}
	}
	r.seq++
	u.ID = r.seq
	u.CreatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Delete removes a user, mirroring out-of-band account removal. Tokens issued
// for the user stay verifiable; the identity resolver rejects them once the
// lookup fails.
func (r *UserRepository) Delete(_ context.Context, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

var _ repository.UserRepository = (*UserRepository)(nil)
