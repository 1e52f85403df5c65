package auth

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CompanyDetails struct {
	CompanyName   string `json:"companyName"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
}

type RegisterRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Password       string          `json:"password"`
	Role           user.Role       `json:"role,omitempty"`
	CompanyDetails *CompanyDetails `json:"companyDetails,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = validator.NormalizeEmail(r.Email)
	if r.Role == "" {
		r.Role = user.RoleStaff
	}

	errs := user.ValidateCredentials(r.Name, r.Email, r.Password)

	if !r.Role.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of company, staff",
		})
	}

	if r.Role == user.RoleCompany {
		d := r.CompanyDetails
		if d == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "companyDetails",
				Message: "companyDetails is required when registering a company",
			})
		} else {
			d.CompanyName = strings.TrimSpace(d.CompanyName)
			d.Address = strings.TrimSpace(d.Address)
			d.ContactPerson = strings.TrimSpace(d.ContactPerson)
			d.Phone = strings.TrimSpace(d.Phone)

			if validator.IsEmpty(d.CompanyName) {
				errs = append(errs, validator.ValidationError{Field: "companyDetails.companyName", Message: "companyName is required"})
			}
			if validator.IsEmpty(d.Address) {
				errs = append(errs, validator.ValidationError{Field: "companyDetails.address", Message: "address is required"})
			}
			if validator.IsEmpty(d.ContactPerson) {
				errs = append(errs, validator.ValidationError{Field: "companyDetails.contactPerson", Message: "contactPerson is required"})
			}
			if validator.IsEmpty(d.Phone) {
				errs = append(errs, validator.ValidationError{Field: "companyDetails.phone", Message: "phone is required"})
			} else if !validator.IsValidPhoneNumber(d.Phone) {
				errs = append(errs, validator.ValidationError{Field: "companyDetails.phone", Message: "phone must be a valid phone number"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      user.UserResponse `json:"user"`
}
