package user

import "context"

// UserService backs the admin user management endpoints.
type UserService interface {
	List(ctx context.Context, filter UserFilter) (ListUserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	// Deactivate soft-deletes id. actorID is the caller, who may not deactivate themselves.
	Deactivate(ctx context.Context, actorID string, id string) error
}
