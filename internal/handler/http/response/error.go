package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Unauthorized")
	case errors.Is(err, auth.ErrAccountDeactivated):
		Forbidden(w, "Account is deactivated")
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, "Forbidden")
	case errors.Is(err, auth.ErrAdminSelfRegistration):
		Forbidden(w, "Admin accounts cannot be self-registered")
	case errors.Is(err, auth.ErrOAuthDisabled):
		NotFound(w, "Google sign-in is not configured")
	case errors.Is(err, auth.ErrOAuthStateMismatch):
		BadRequest(w, "Invalid OAuth state", nil)
	case errors.Is(err, auth.ErrOAuthAccountNotFound):
		NotFound(w, "No account is registered for this Google email")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrCannotDeactivateSelf):
		BadRequest(w, "You cannot deactivate your own account", nil)
	case errors.Is(err, user.ErrCompanyIDRequired):
		BadRequest(w, "Company ID is required", nil)

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyEmailExists):
		Conflict(w, "Company email already registered")
	case errors.Is(err, company.ErrNoCompanyAssociated):
		NotFound(w, "No company associated with this account")
	case errors.Is(err, company.ErrCompanyIDRequired):
		BadRequest(w, "companyId query parameter is required", nil)
	case errors.Is(err, company.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, company.ErrStaffOtherCompany):
		Forbidden(w, "Staff member belongs to another company")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BadRequest(w, "Already checked in today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		BadRequest(w, "Already checked out today", nil)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in record found for today", nil)
	case errors.Is(err, attendance.ErrNoCompany):
		BadRequest(w, "User is not associated with any company", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "No attendance record found for today")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
