package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context) (user.UserResponse, error)

	// GoogleAuthURL returns the consent page URL and the state the callback must echo.
	GoogleAuthURL() (url string, state string, err error)
	// LoginWithGoogle exchanges the callback code and signs in the matching active account.
	LoginWithGoogle(ctx context.Context, code string) (TokenResponse, error)
}
