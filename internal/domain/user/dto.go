package user

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CompanyID *string   `json:"companyId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      Role    `json:"role"`
	CompanyID *string `json:"companyId,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	if r.Role == "" {
		r.Role = RoleStaff
	}

	errs = append(errs, validateName(r.Name)...)
	errs = append(errs, validateEmail(r.Email)...)
	errs = append(errs, validatePassword(r.Password)...)

	if !r.Role.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of admin, company, staff",
		})
	}
	if r.CompanyID != nil && *r.CompanyID == "" {
		r.CompanyID = nil
	}
	if r.Role == RoleStaff && r.CompanyID == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "companyId",
			Message: "companyId is required for staff",
		})
	}
	if r.CompanyID != nil && !validator.IsValidUUID(*r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "companyId",
			Message: "companyId must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	CompanyID *string `json:"companyId,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`

	// Set by the service, not by clients.
	PasswordHash   *string `json:"-"`
	ClearCompanyID bool    `json:"-"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		errs = append(errs, validateName(*r.Name)...)
	}
	if r.Email != nil {
		email := validator.NormalizeEmail(*r.Email)
		r.Email = &email
		errs = append(errs, validateEmail(email)...)
	}
	if r.Password != nil {
		errs = append(errs, validatePassword(*r.Password)...)
	}
	if r.Role != nil && !r.Role.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of admin, company, staff",
		})
	}
	if r.CompanyID != nil && !validator.IsValidUUID(*r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "companyId",
			Message: "companyId must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserFilter struct {
	Role      *Role
	Search    *string
	CompanyID *string
	IsActive  *bool

	Page  int
	Limit int
}

func (f *UserFilter) Validate() error {
	errs := validator.ValidatePagination(&f.Page, &f.Limit)

	if f.Role != nil && !f.Role.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of admin, company, staff",
		})
	}
	if f.CompanyID != nil && !validator.IsValidUUID(*f.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "companyId",
			Message: "companyId must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListUserResponse struct {
	Users      []UserResponse `json:"users"`
	TotalCount int64          `json:"totalCount"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

func validateName(name string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}
	return errs
}

func validateEmail(email string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if validator.IsEmpty(email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if len(email) > 254 || !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	return errs
}

func validatePassword(password string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if validator.IsEmpty(password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	} else if len(password) < MinPasswordLength {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters long"})
	} else if len(password) > 72 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must not exceed 72 characters"})
	}
	return errs
}

// MinPasswordLength is shared by registration and account management.
const MinPasswordLength = 6

// ValidateCredentials checks name, email and password for new accounts.
func ValidateCredentials(name, email, password string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	errs = append(errs, validateName(name)...)
	errs = append(errs, validateEmail(email)...)
	errs = append(errs, validatePassword(password)...)
	return errs
}
