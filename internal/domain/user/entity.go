package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Platform operator
	RoleCompany Role = "company" // Company account, manages its own staff
	RoleStaff   Role = "staff"   // Checks in and out
)

var Roles = []Role{RoleAdmin, RoleCompany, RoleStaff}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCompany, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	CompanyID       *string
	OAuthProvider   *string
	OAuthProviderID *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasCompany reports whether the user is attached to a company.
func (u *User) HasCompany() bool {
	return u.CompanyID != nil && *u.CompanyID != ""
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ToResponse strips credentials.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
