package auth

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Claims identify the caller of a request.
type Claims struct {
	UserID string
	Role   user.Role
	Email  string
}

// Authorize reports whether role satisfies any of required. An empty
// required list admits every authenticated role.
func Authorize(role user.Role, required ...user.Role) bool {
	if !role.IsValid() {
		return false
	}
	if len(required) == 0 {
		return true
	}
	return slices.Contains(required, role)
}

// ClaimsFromContext reads the verified token placed in the context by the gate.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Claims{}, ErrUnauthorized
	}
	payload, err := jwt.PayloadFromClaims(claims)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}
	return Claims{
		UserID: payload.UserID,
		Role:   user.Role(payload.Role),
		Email:  payload.Email,
	}, nil
}
