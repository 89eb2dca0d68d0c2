package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fyndrai/fyndr/internal/common"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUniqueLocked(user); err != nil {
		return nil, err
	}

	u := user.clone()
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.users[u.ID] = u
	return u.clone(), nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.UserName, login) || strings.EqualFold(u.Email, login) {
			return u.clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.clone(), nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	if err := r.checkUniqueLocked(user); err != nil {
		return nil, err
	}

	u := user.clone()
	r.users[u.ID] = u
	return u.clone(), nil
}

func (r *MemoryRepository) checkUniqueLocked(user *User) error {
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(u.UserName, user.UserName) {
			return &DuplicateError{Field: "username"}
		}
		if strings.EqualFold(u.Email, user.Email) {
			return &DuplicateError{Field: "email"}
		}
	}
	return nil
}
