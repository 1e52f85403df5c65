package auth

import "errors"

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountDeactivated    = errors.New("account is deactivated")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrAdminSelfRegistration = errors.New("admin accounts cannot be self-registered")
	ErrOAuthDisabled         = errors.New("google sign-in is not configured")
	ErrOAuthStateMismatch    = errors.New("oauth state mismatch")
	ErrOAuthAccountNotFound  = errors.New("no account registered for this google email")
)
