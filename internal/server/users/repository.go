package users

import (
	"context"
	"fmt"

	"github.com/fyndrai/fyndr/internal/common"
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	// GetUserByLogin matches login against usernames and emails, ignoring case.
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

// DuplicateError reports a unique field already taken by another user.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *DuplicateError) Unwrap() error {
	return common.ErrorAlreadyExists
}
