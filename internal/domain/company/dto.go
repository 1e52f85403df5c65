package company

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contactPerson"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Logo          *string   `json:"logo,omitempty"`
	IsActive      bool      `json:"isActive"`
	StaffCount    *int64    `json:"staffCount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateCompanyRequest struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	ContactPerson string  `json:"contactPerson"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Logo          *string `json:"logo,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.ContactPerson = strings.TrimSpace(r.ContactPerson)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = validator.NormalizeEmail(r.Email)

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}
	if validator.IsEmpty(r.Address) {
		errs = append(errs, validator.ValidationError{Field: "address", Message: "address is required"})
	}
	if validator.IsEmpty(r.ContactPerson) {
		errs = append(errs, validator.ValidationError{Field: "contactPerson", Message: "contactPerson is required"})
	}
	if validator.IsEmpty(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone is required"})
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone must be a valid phone number"})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateCompanyRequest is a partial update; nil fields are left untouched.
type UpdateCompanyRequest struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Logo          *string `json:"logo,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name cannot be empty"})
	}
	if r.Address != nil && validator.IsEmpty(*r.Address) {
		errs = append(errs, validator.ValidationError{Field: "address", Message: "address cannot be empty"})
	}
	if r.ContactPerson != nil && validator.IsEmpty(*r.ContactPerson) {
		errs = append(errs, validator.ValidationError{Field: "contactPerson", Message: "contactPerson cannot be empty"})
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone must be a valid phone number"})
	}
	if r.Email != nil {
		email := validator.NormalizeEmail(*r.Email)
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompanyFilter struct {
	Search   *string
	IsActive *bool

	Page  int
	Limit int
}

func (f *CompanyFilter) Validate() error {
	if errs := validator.ValidatePagination(&f.Page, &f.Limit); len(errs) > 0 {
		return errs
	}
	return nil
}

type ListCompanyResponse struct {
	Companies  []CompanyResponse `json:"companies"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

type StaffFilter struct {
	IsActive *bool
	Search   *string

	Page  int
	Limit int
}

func (f *StaffFilter) Validate() error {
	if errs := validator.ValidatePagination(&f.Page, &f.Limit); len(errs) > 0 {
		return errs
	}
	return nil
}

type ListStaffResponse struct {
	Staff      []user.UserResponse `json:"staff"`
	TotalCount int64               `json:"totalCount"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}

// AddStaffRequest creates a staff account inside the caller's company.
type AddStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *AddStaffRequest) Validate() error {
	r.Email = validator.NormalizeEmail(r.Email)
	if errs := user.ValidateCredentials(r.Name, r.Email, r.Password); len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStaffRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func (r *UpdateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name cannot be empty"})
	}
	if r.Email != nil {
		email := validator.NormalizeEmail(*r.Email)
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
