package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrCompanyIDRequired       = errors.New("company ID is required")
	ErrCannotDeactivateSelf    = errors.New("cannot deactivate your own account")
	ErrUserNotInCompany        = errors.New("user does not belong to this company")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
