package user

import (
	"context"
)

// UserRepository returns ErrUserNotFound for missing rows and ErrUserEmailExists on duplicate emails.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, req UpdateUserRequest) (User, error)
	Deactivate(ctx context.Context, id string) error
	DeactivateByCompany(ctx context.Context, companyID string) error
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	CountByCompany(ctx context.Context, companyID string, role Role) (int64, error)
}
