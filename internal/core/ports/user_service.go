package ports

import (
	"context"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// CreateUserInput carries a new account.
type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string
	Services  []string
}

// UpdateUserInput carries a partial account update. An empty password keeps
// the current one.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *string
	Services  []string
}

// UserService manages accounts. Only admins manage other users; anyone may
// read their own account.
type UserService interface {
	List(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	Create(ctx context.Context, actor domain.Actor, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
